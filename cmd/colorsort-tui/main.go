package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/mcoot/colorwood/internal/dependencies/clock"
	"github.com/mcoot/colorwood/internal/frontend/audio"
	"github.com/mcoot/colorwood/internal/frontend/local"
	"github.com/mcoot/colorwood/internal/frontend/terminal"
)

const tps = 30

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := local.DefaultOptions()
	var (
		mute    bool
		logFile string
	)

	cmd := &cobra.Command{
		Use:   "colorsort-tui",
		Short: "Play the colorwood sort puzzle in the terminal",
		Long: `colorsort-tui plays the sort puzzle in a terminal with mouse support.

Drag the top run of a slot onto another slot of the same kind. Enter skips
the intro, r deals a new board during play and q or Esc quits. Short sound
cues play on pickups, clears and the end of the game unless muted.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The screen owns stdout, so logs only go to a file when asked
			var logOut io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("opening log file: %w", err)
				}
				defer f.Close()
				logOut = f
			}
			logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slog.LevelDebug}))

			resolved, err := local.OptionsFromEnv(local.DefaultOptions())
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("seed") {
				resolved.Seed = opts.Seed
			}
			if flags.Changed("free-play") {
				resolved.FreePlay = opts.FreePlay
			}
			if flags.Changed("store-url") {
				resolved.StoreURL = opts.StoreURL
			}

			soundCfg, err := audio.ConfigFromEnv(audio.DefaultConfig())
			if err != nil {
				return err
			}
			if mute {
				soundCfg.Enabled = false
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return err
			}
			if err := screen.Init(); err != nil {
				return err
			}
			defer screen.Fini()

			cols, _ := screen.Size()
			resolved.Width = float64(cols * terminal.CellPixels)

			clk := clock.NewFrameClock(time.Now(), tps)
			game, err := local.Launch(resolved, clk, logger)
			if err != nil {
				return err
			}

			sound := audio.NewSoundManager(soundCfg, logger)
			if err := sound.Initialize(); err != nil {
				// Non-fatal, the game runs without sound
				logger.Warn("audio unavailable", slog.String("error", err.Error()))
			}
			defer sound.Cleanup()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return terminal.New(screen, game, clk, sound, logger).Run(ctx, tps)
		},
	}

	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "Deal seed, 0 for random (env: COLORWOOD_SEED)")
	cmd.Flags().BoolVar(&opts.FreePlay, "free-play", false, "Play without the ad timeline (env: COLORWOOD_FREE_PLAY)")
	cmd.Flags().StringVar(&opts.StoreURL, "store-url", "", "Store link shown at the end (env: COLORWOOD_STORE_URL)")
	cmd.Flags().BoolVar(&mute, "mute", false, "Disable sound (env: COLORWOOD_SOUND=false)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Write debug logs to this file")
	return cmd
}
