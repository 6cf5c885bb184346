// Package terminal runs a local game in a tcell terminal UI with mouse
// input and optional sound
package terminal

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"

	"github.com/mcoot/colorwood/internal/dependencies/clock"
	"github.com/mcoot/colorwood/internal/frontend/audio"
	"github.com/mcoot/colorwood/internal/frontend/input"
	"github.com/mcoot/colorwood/internal/frontend/local"
	"github.com/mcoot/colorwood/internal/model"
)

const (
	headerRows  = 1
	footerRows  = 1
	statusTicks = 90
)

// surface is the part of tcell.Screen the renderer paints through
type surface interface {
	Size() (int, int)
	Clear()
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
}

// Terminal drives a local game from a tcell screen
type Terminal struct {
	screen  tcell.Screen
	game    *local.Game
	clock   *clock.FrameClock
	sound   *audio.SoundManager
	tracker *input.Tracker
	logger  *slog.Logger

	// copy writes to the system clipboard
	copy func(string) error

	grid        grid
	status      string
	statusTicks int
}

// New creates a Terminal. The clock must be the one the game's services
// were built with; it is advanced once per tick.
func New(screen tcell.Screen, game *local.Game, clk *clock.FrameClock, sound *audio.SoundManager, logger *slog.Logger) *Terminal {
	t := &Terminal{
		screen:  screen,
		game:    game,
		clock:   clk,
		sound:   sound,
		tracker: input.NewTracker(0, 0),
		logger:  logger.With(slog.String("component", "terminal")),
		copy:    clipboard.WriteAll,
	}
	t.resize(screen.Size())
	return t
}

// Run processes input and ticks the game until the player quits or ctx ends.
// The caller owns the screen and must Fini it afterwards.
func (t *Terminal) Run(ctx context.Context, tps int) error {
	t.screen.EnableMouse(tcell.MouseButtonEvents | tcell.MouseDragEvents)
	t.screen.HideCursor()

	events := make(chan tcell.Event, 64)
	done := make(chan struct{})
	defer close(done)
	go t.pumpEvents(done, events)

	ticker := time.NewTicker(time.Second / time.Duration(tps))
	defer ticker.Stop()

	t.render()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !t.handleEvent(ev) {
				return nil
			}
			t.render()
		case <-ticker.C:
			t.tick()
			t.render()
		}
	}
}

// pumpEvents forwards screen events until the screen is finalised or done
// closes. A full queue never outlives Run.
func (t *Terminal) pumpEvents(done <-chan struct{}, events chan<- tcell.Event) {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

func (t *Terminal) tick() {
	t.clock.Advance()
	t.report(t.game.Tick())
	if t.statusTicks > 0 {
		t.statusTicks--
		if t.statusTicks == 0 {
			t.status = ""
		}
	}
}

// handleEvent applies one terminal event, returning false to quit
func (t *Terminal) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyEnter:
			t.report(t.game.Dismiss())
		case tcell.KeyRune:
			return t.onRune(ev.Rune())
		}
	case *tcell.EventMouse:
		x, y := ev.Position()
		t.onMouse(x, y, ev.Buttons()&tcell.Button1 != 0)
	case *tcell.EventResize:
		t.screen.Sync()
		t.resize(t.screen.Size())
	}
	return true
}

func (t *Terminal) onRune(r rune) bool {
	switch r {
	case 'q':
		return false
	case 'h':
		t.flash(t.game.HintMessage())
	case 'r':
		out, err := t.game.Reset()
		switch {
		case errors.Is(err, model.ErrNotInGameplay):
			t.flash("Reset is only available during play")
		case err != nil:
			t.logger.Error("reset failed", slog.String("error", err.Error()))
		default:
			t.report(out)
		}
	}
	return true
}

// onMouse feeds a mouse sample at screen cell (x, y) to the gesture tracker
func (t *Terminal) onMouse(x, y int, pressed bool) {
	col, row := x, y-headerRows
	bx, by := t.grid.toBoard(col, row)
	ops := t.tracker.Update(input.Sample{X: bx, Y: by, Pressed: pressed, Inside: t.grid.inside(col, row)})

	out := t.game.Apply(ops)
	t.report(out)
	if out.OpenStore != "" {
		if err := t.copy(out.OpenStore); err != nil {
			t.flash(out.OpenStore)
		} else {
			t.flash("Store link copied to clipboard")
		}
	}
}

// resize relays the board out for the terminal width and refits the grid
func (t *Terminal) resize(cols, rows int) {
	if err := t.game.Resize(float64(max(cols, 1) * CellPixels)); err != nil {
		t.logger.Debug("relayout skipped", slog.Int("cols", cols), slog.String("error", err.Error()))
	}
	l := t.game.Layout()
	t.grid = newGrid(cols, rows-headerRows-footerRows, l.Width, l.Height)
}

func (t *Terminal) report(out local.Outcome) {
	if t.sound != nil {
		t.sound.PlayEvents(out.Events)
	}
	for _, e := range out.Events {
		switch e.Type {
		case model.EventSlotCleared:
			t.flash("Slot cleared!")
		case model.EventBoardReset:
			t.flash("New board")
		}
	}
}

func (t *Terminal) flash(msg string) {
	t.status = msg
	t.statusTicks = statusTicks
}

func (t *Terminal) render() {
	t.draw(t.screen)
	t.screen.Show()
}
