package local

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/mcoot/colorwood/internal/dependencies/clock"
	"github.com/mcoot/colorwood/internal/dependencies/random"
	"github.com/mcoot/colorwood/internal/factory"
	"github.com/mcoot/colorwood/internal/model"
)

// Options configures a locally played game
type Options struct {
	// Seed makes the deal reproducible; 0 picks one from the clock
	Seed     uint64
	FreePlay bool
	Width    float64
	StoreURL string
}

// DefaultOptions returns a timed game with a random deal
func DefaultOptions() Options {
	return Options{Width: 400}
}

// OptionsFromEnv overrides base with COLORWOOD_SEED, COLORWOOD_FREE_PLAY
// and COLORWOOD_STORE_URL
func OptionsFromEnv(base Options) (Options, error) {
	opts := base
	if v := os.Getenv("COLORWOOD_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return base, model.NewConfigError("seed", "invalid COLORWOOD_SEED %q", v)
		}
		opts.Seed = seed
	}
	if v := os.Getenv("COLORWOOD_FREE_PLAY"); v != "" {
		free, err := strconv.ParseBool(v)
		if err != nil {
			return base, model.NewConfigError("free_play", "invalid COLORWOOD_FREE_PLAY %q", v)
		}
		opts.FreePlay = free
	}
	if v := os.Getenv("COLORWOOD_STORE_URL"); v != "" {
		opts.StoreURL = v
	}
	return opts, nil
}

// GameConfig returns the reference configuration adjusted by the options
func (o Options) GameConfig() model.GameConfig {
	cfg := model.DefaultGameConfig()
	if o.FreePlay {
		cfg = model.DefaultFreePlayConfig()
	}
	if o.StoreURL != "" {
		cfg.StoreURL = o.StoreURL
	}
	return cfg
}

// Launch wires the services over the given clock and deals a game
func Launch(opts Options, clk clock.Clock, logger *slog.Logger) (*Game, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	logger.Info("dealing local game", slog.Uint64("seed", seed), slog.Bool("free_play", opts.FreePlay))

	app, err := factory.New(factory.Config{
		Logger: logger,
		Clock:  clk,
		Random: random.NewSeeded(seed),
	})
	if err != nil {
		return nil, err
	}
	g, err := New(app.GameController, app.SnapshotService, app.HitTestService, opts.GameConfig(), opts.Width, logger)
	if err != nil {
		return nil, err
	}
	return g.WithHints(app.HintService), nil
}
