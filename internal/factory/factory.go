package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/colorwood/internal/dependencies/clock"
	"github.com/mcoot/colorwood/internal/dependencies/random"
	"github.com/mcoot/colorwood/internal/services/board"
	"github.com/mcoot/colorwood/internal/services/completion"
	"github.com/mcoot/colorwood/internal/services/game"
	"github.com/mcoot/colorwood/internal/services/hint"
	"github.com/mcoot/colorwood/internal/services/hittest"
	"github.com/mcoot/colorwood/internal/services/moves"
	"github.com/mcoot/colorwood/internal/services/session"
	"github.com/mcoot/colorwood/internal/services/snapshot"
	"github.com/mcoot/colorwood/internal/services/timeline"
	"github.com/mcoot/colorwood/internal/storage"
	"github.com/mcoot/colorwood/internal/storage/memory"
	redisstorage "github.com/mcoot/colorwood/internal/storage/redis"
	"github.com/mcoot/colorwood/internal/web/sse"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	BoardService       *board.Service
	TimelineService    *timeline.Service
	CompletionDetector *completion.Detector
	MoveService        *moves.Service
	HitTestService     *hittest.Service
	SnapshotService    *snapshot.Service
	GameController     *game.Controller
	SessionController  *session.Controller
	HintService        *hint.Service
	HubManager         *sse.HubManager
	Broadcaster        *sse.Broadcaster
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// Clock overrides the wall clock (optional). Frontends pass a frame clock.
	Clock clock.Clock
	// Random overrides the crypto source (optional). Frontends pass a seeded one.
	Random random.Random
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	var clk clock.Clock = clock.New()
	if cfg.Clock != nil {
		clk = cfg.Clock
	}
	var rnd random.Random = random.New()
	if cfg.Random != nil {
		rnd = cfg.Random
	}

	return newWithDependencies(store, clk, rnd, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	boardService := board.New(rnd, logger)
	timelineService := timeline.New(logger)
	detector := completion.New(timelineService, clk, logger)
	moveService := moves.New(detector, clk, logger)
	hitTestService := hittest.New(logger)
	snapshotService := snapshot.New(timelineService, clk)
	gameController := game.NewController(boardService, moveService, timelineService, hitTestService, clk, logger)

	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, logger)
	sessionController := session.NewController(store, gameController, snapshotService, broadcaster, clk, rnd, logger)
	hintService := hint.New(moveService, rnd, logger)

	return &App{
		Storage:            store,
		Clock:              clk,
		Random:             rnd,
		BoardService:       boardService,
		TimelineService:    timelineService,
		CompletionDetector: detector,
		MoveService:        moveService,
		HitTestService:     hitTestService,
		SnapshotService:    snapshotService,
		GameController:     gameController,
		SessionController:  sessionController,
		HintService:        hintService,
		HubManager:         hubManager,
		Broadcaster:        broadcaster,
	}
}

// Close releases the storage backend's connections
func (a *App) Close() error {
	a.HubManager.Shutdown()
	if c, ok := a.Storage.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
