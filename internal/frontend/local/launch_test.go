package local

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/colorwood/internal/dependencies/mocks"
	"github.com/mcoot/colorwood/internal/model"
)

func TestOptionsFromEnv(t *testing.T) {
	t.Setenv("COLORWOOD_SEED", "42")
	t.Setenv("COLORWOOD_FREE_PLAY", "true")
	t.Setenv("COLORWOOD_STORE_URL", "https://example.com/app")

	opts, err := OptionsFromEnv(DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, uint64(42), opts.Seed)
	assert.True(t, opts.FreePlay)
	assert.Equal(t, 400.0, opts.Width)

	cfg := opts.GameConfig()
	assert.Nil(t, cfg.Timeline)
	assert.Equal(t, "https://example.com/app", cfg.StoreURL)
}

func TestOptionsFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"seed", "COLORWOOD_SEED", "-1"},
		{"free play", "COLORWOOD_FREE_PLAY", "sometimes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := OptionsFromEnv(DefaultOptions())
			var cfgErr *model.ConfigError
			assert.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestLaunch_SeedIsReproducible(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts := DefaultOptions()
	opts.Seed = 7

	deal := func() *model.Board {
		clk := mocks.NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
		g, err := Launch(opts, clk, logger)
		require.NoError(t, err)
		snap, err := g.Snapshot()
		require.NoError(t, err)
		return snap.Board
	}

	first, second := deal(), deal()
	assert.Equal(t, first, second)
	assert.Equal(t, model.DefaultGameConfig().TotalPieces(), first.TotalPieces())
}
