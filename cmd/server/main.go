package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/mcoot/colorwood/internal/api"
	"github.com/mcoot/colorwood/internal/factory"
	"github.com/mcoot/colorwood/internal/model"
	redisstorage "github.com/mcoot/colorwood/internal/storage/redis"
	"github.com/mcoot/colorwood/internal/web"
)

// hubSweepInterval is how often event hubs without viewers are dropped
const hubSweepInterval = time.Minute

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Build factory config from environment
	cfg := factory.Config{
		Logger:      logger,
		StorageType: os.Getenv("STORAGE_TYPE"),
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg
	}

	baseConfig, err := gameConfigFromEnv()
	if err != nil {
		logger.Error("invalid game configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close application", slog.String("error", err.Error()))
		}
	}()

	r := mux.NewRouter()
	api.Mount(r, api.RouterConfig{
		Logger:            logger,
		SessionController: app.SessionController,
		HubManager:        app.HubManager,
		HintService:       app.HintService,
		BaseConfig:        baseConfig,
	})
	web.Mount(r, web.RouterConfig{
		Logger:            logger,
		SessionController: app.SessionController,
		HitTestService:    app.HitTestService,
		HubManager:        app.HubManager,
		BaseConfig:        baseConfig,
		StaticDir:         os.Getenv("COLORWOOD_STATIC_DIR"),
	})

	serverConfig, err := api.ServerConfigFromEnv(api.DefaultServerConfig())
	if err != nil {
		logger.Error("invalid server configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	server := api.NewServer(r, serverConfig, logger)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go sweepHubs(ctx, app)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.Bool("free_play", baseConfig.Timeline == nil))

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}

// gameConfigFromEnv starts from the reference ad and applies
// COLORWOOD_FREE_PLAY and COLORWOOD_STORE_URL
func gameConfigFromEnv() (model.GameConfig, error) {
	cfg := model.DefaultGameConfig()
	if v := os.Getenv("COLORWOOD_FREE_PLAY"); v != "" {
		freePlay, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, err
		}
		if freePlay {
			cfg.Timeline = nil
		}
	}
	if v := os.Getenv("COLORWOOD_STORE_URL"); v != "" {
		cfg.StoreURL = v
	}
	return cfg, cfg.Validate()
}

func sweepHubs(ctx context.Context, app *factory.App) {
	ticker := time.NewTicker(hubSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.HubManager.CleanupEmptyHubs()
		}
	}
}
