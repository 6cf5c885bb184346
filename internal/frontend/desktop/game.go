// Package desktop runs a local game in an ebiten window
package desktop

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/mcoot/colorwood/internal/dependencies/clock"
	"github.com/mcoot/colorwood/internal/frontend/input"
	"github.com/mcoot/colorwood/internal/frontend/local"
	"github.com/mcoot/colorwood/internal/model"
)

const (
	margin       = 12
	headerHeight = 28
	statusFrames = 120
)

// action is a keyboard command, decoupled from ebiten key codes so the
// update logic can be driven from tests
type action int

const (
	actionReset action = iota
	actionCopySnapshot
	actionHint
	actionQuit
)

var keyActions = map[ebiten.Key]action{
	ebiten.KeyR:      actionReset,
	ebiten.KeyC:      actionCopySnapshot,
	ebiten.KeyH:      actionHint,
	ebiten.KeyEscape: actionQuit,
	ebiten.KeyQ:      actionQuit,
}

// Game implements ebiten.Game over a local session
type Game struct {
	game    *local.Game
	clock   *clock.FrameClock
	tracker *input.Tracker
	logger  *slog.Logger

	// copy writes to the system clipboard
	copy func(string) error

	windowWidth  int
	windowHeight int

	status       string
	statusFrames int
}

// New wraps a local game. The clock must be the one the game's services
// were built with; it is advanced once per update.
func New(game *local.Game, clk *clock.FrameClock, logger *slog.Logger) *Game {
	return &Game{
		game:    game,
		clock:   clk,
		tracker: input.NewTracker(margin, margin+headerHeight),
		logger:  logger.With(slog.String("component", "desktop")),
		copy:    clipboard.WriteAll,
	}
}

// WindowSize returns the window size that fits the board at its current layout
func (g *Game) WindowSize() (int, int) {
	l := g.game.Layout()
	return int(l.Width) + 2*margin, int(l.Height) + 2*margin + headerHeight
}

// Update advances one frame
func (g *Game) Update() error {
	var actions []action
	for key, a := range keyActions {
		if inpututil.IsKeyJustPressed(key) {
			actions = append(actions, a)
		}
	}
	return g.step(g.sample(), actions)
}

// sample reads the pointer, preferring the first touch over the mouse
func (g *Game) sample() input.Sample {
	x, y := ebiten.CursorPosition()
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	if ids := ebiten.AppendTouchIDs(nil); len(ids) > 0 {
		x, y = ebiten.TouchPosition(ids[0])
		pressed = true
	}
	inside := x >= 0 && y >= 0 && x < g.windowWidth && y < g.windowHeight
	return input.Sample{X: float64(x), Y: float64(y), Pressed: pressed, Inside: inside}
}

func (g *Game) step(s input.Sample, actions []action) error {
	g.clock.Advance()
	g.report(g.game.Tick())

	for _, a := range actions {
		switch a {
		case actionQuit:
			return ebiten.Termination
		case actionReset:
			out, err := g.game.Reset()
			if errors.Is(err, model.ErrNotInGameplay) {
				g.flash("Reset is only available during play")
				continue
			}
			if err != nil {
				return err
			}
			g.report(out)
		case actionCopySnapshot:
			g.copySnapshot()
		case actionHint:
			g.flash(g.game.HintMessage())
		}
	}

	out := g.game.Apply(g.tracker.Update(s))
	g.report(out)
	if out.OpenStore != "" {
		if err := g.copy(out.OpenStore); err != nil {
			g.logger.Warn("clipboard unavailable", slog.String("error", err.Error()))
			g.flash(out.OpenStore)
		} else {
			g.flash("Store link copied to clipboard")
		}
	}

	if g.statusFrames > 0 {
		g.statusFrames--
		if g.statusFrames == 0 {
			g.status = ""
		}
	}
	return nil
}

func (g *Game) copySnapshot() {
	snap, err := g.game.Snapshot()
	if err != nil {
		g.logger.Error("snapshot failed", slog.String("error", err.Error()))
		return
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		g.logger.Error("encoding snapshot", slog.String("error", err.Error()))
		return
	}
	if err := g.copy(string(data)); err != nil {
		g.logger.Warn("clipboard unavailable", slog.String("error", err.Error()))
		g.flash("Clipboard unavailable")
		return
	}
	g.flash(fmt.Sprintf("Snapshot %s copied", shortDigest(snap.Digest)))
}

// report logs the events of a frame and turns the notable ones into status text
func (g *Game) report(out local.Outcome) {
	for _, e := range out.Events {
		g.logger.Debug("event", slog.String("type", string(e.Type)))
		switch e.Type {
		case model.EventSlotCleared:
			g.flash("Slot cleared!")
		case model.EventBoardReset:
			g.flash("New board")
		}
	}
}

func (g *Game) flash(msg string) {
	g.status = msg
	g.statusFrames = statusFrames
}

// Layout follows the window: a width change relays the board out
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.windowWidth {
		if err := g.game.Resize(float64(outsideWidth - 2*margin)); err != nil {
			g.logger.Debug("relayout skipped", slog.Int("width", outsideWidth), slog.String("error", err.Error()))
		}
	}
	g.windowWidth, g.windowHeight = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

func shortDigest(d string) string {
	if len(d) > 8 {
		return d[:8]
	}
	return d
}

// Run opens the window and blocks until it is closed
func Run(g *Game, title string, tps int) error {
	w, h := g.WindowSize()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(tps)

	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
