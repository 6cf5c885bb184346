package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/colorwood/internal/dependencies/clock"
	"github.com/mcoot/colorwood/internal/frontend/desktop"
	"github.com/mcoot/colorwood/internal/frontend/local"
)

const tps = 60

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := local.DefaultOptions()
	var verbose bool

	cmd := &cobra.Command{
		Use:   "colorsort",
		Short: "Play the colorwood sort puzzle in a desktop window",
		Long: `colorsort plays the sort puzzle locally in a window.

Drag the top run of a slot onto another slot of the same kind. R deals a
new board during play, C copies the current snapshot as JSON and Esc quits.
Pressing the CTA button copies the store link to the clipboard.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			resolved, err := local.OptionsFromEnv(local.DefaultOptions())
			if err != nil {
				return err
			}
			// Flags win over the environment
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
			resolved.Width = opts.Width

			clk := clock.NewFrameClock(time.Now(), tps)
			game, err := local.Launch(resolved, clk, logger)
			if err != nil {
				return err
			}
			return desktop.Run(desktop.New(game, clk, logger), "Colorwood", tps)
		},
	}

	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "Deal seed, 0 for random (env: COLORWOOD_SEED)")
	cmd.Flags().BoolVar(&opts.FreePlay, "free-play", false, "Play without the ad timeline (env: COLORWOOD_FREE_PLAY)")
	cmd.Flags().StringVar(&opts.StoreURL, "store-url", "", "Store link shown at the end (env: COLORWOOD_STORE_URL)")
	cmd.Flags().Float64Var(&opts.Width, "width", opts.Width, "Initial board width in pixels")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
	return cmd
}
