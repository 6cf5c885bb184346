package desktop

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/colorwood/internal/dependencies/clock"
	"github.com/mcoot/colorwood/internal/dependencies/mocks"
	"github.com/mcoot/colorwood/internal/factory"
	"github.com/mcoot/colorwood/internal/frontend/input"
	"github.com/mcoot/colorwood/internal/frontend/local"
	"github.com/mcoot/colorwood/internal/model"
)

type harness struct {
	game   *Game
	app    *factory.App
	copied []string
}

func newHarness(t *testing.T, timed bool) *harness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clk := clock.NewFrameClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 60)
	app, err := factory.New(factory.Config{Logger: logger, Clock: clk, Random: mocks.NewMockRandom()})
	require.NoError(t, err)

	cfg := model.DefaultFreePlayConfig()
	if timed {
		cfg = model.DefaultGameConfig()
	}
	cfg.SlotCount = 2
	cfg.Capacity = 2
	cfg.Kinds = []model.Kind{model.KindMoon}
	cfg.PiecesPerKind = 2

	lg, err := local.New(app.GameController, app.SnapshotService, app.HitTestService, cfg, 600, logger)
	require.NoError(t, err)

	h := &harness{app: app}
	h.game = New(lg.WithHints(app.HintService), clk, logger)
	h.game.copy = func(s string) error {
		h.copied = append(h.copied, s)
		return nil
	}
	w, hh := h.game.WindowSize()
	h.game.Layout(w, hh)
	return h
}

// at converts a board-local point into a window sample
func at(x, y float64, pressed bool) input.Sample {
	return input.Sample{X: x + margin, Y: y + margin + headerHeight, Pressed: pressed, Inside: true}
}

func (h *harness) step(t *testing.T, s input.Sample, actions ...action) {
	t.Helper()
	require.NoError(t, h.game.step(s, actions))
}

func (h *harness) drag(t *testing.T) {
	t.Helper()
	snap, err := h.game.game.Snapshot()
	require.NoError(t, err)
	from, _ := h.app.HitTestService.PieceRect(snap.Layout, 0, 0)
	to, _ := h.app.HitTestService.LandingRect(snap.Board, snap.Layout, 1)
	fx, fy := from.Center()
	tx, ty := to.Center()

	h.step(t, at(fx, fy, true))
	h.step(t, at(tx, ty, true))
	h.step(t, at(tx, ty, false))
}

func TestWindowSizeFitsBoard(t *testing.T) {
	h := newHarness(t, false)
	w, hh := h.game.WindowSize()
	l := h.game.game.Layout()

	assert.Equal(t, int(l.Width)+2*margin, w)
	assert.Equal(t, int(l.Height)+2*margin+headerHeight, hh)
}

func TestStep_ClickDismissesIntro(t *testing.T) {
	h := newHarness(t, true)
	h.step(t, at(5, 5, false))
	require.Equal(t, model.PhaseIntro, h.game.game.Phase())

	h.step(t, at(5, 5, true))
	assert.Equal(t, model.PhaseGameplay, h.game.game.Phase())
}

func TestStep_IntroEndsOnFrameCount(t *testing.T) {
	h := newHarness(t, true)
	// The timeline starts on the first frame
	for range 10*60 + 1 {
		h.step(t, input.Sample{})
	}
	assert.Equal(t, model.PhaseGameplay, h.game.game.Phase())
}

func TestStep_DragClearsSlot(t *testing.T) {
	h := newHarness(t, false)
	h.drag(t)

	assert.Equal(t, "Slot cleared!", h.game.status)
	sc, err := h.game.game.Scene()
	require.NoError(t, err)
	assert.Empty(t, sc.Pieces)
}

func TestStep_CTAButtonCopiesStoreLink(t *testing.T) {
	h := newHarness(t, true)
	h.step(t, at(5, 5, true))
	h.step(t, at(5, 5, false))
	h.drag(t)
	require.Equal(t, model.PhaseCTA, h.game.game.Phase())

	sc, err := h.game.game.Scene()
	require.NoError(t, err)
	bx, by := sc.CTAButton.Center()
	h.step(t, at(bx, by, true))

	require.Len(t, h.copied, 1)
	assert.Equal(t, model.DefaultGameConfig().StoreURL, h.copied[0])
	assert.Equal(t, "Store link copied to clipboard", h.game.status)
}

func TestStep_ResetOutsideGameplay(t *testing.T) {
	h := newHarness(t, true)
	h.step(t, input.Sample{}, actionReset)

	assert.Equal(t, "Reset is only available during play", h.game.status)
}

func TestStep_Hint(t *testing.T) {
	h := newHarness(t, false)
	h.step(t, input.Sample{}, actionHint)

	assert.Equal(t, "Hint: slot 0 to slot 1", h.game.status)
}

func TestStep_CopySnapshot(t *testing.T) {
	h := newHarness(t, false)
	h.step(t, input.Sample{}, actionCopySnapshot)

	require.Len(t, h.copied, 1)
	assert.Contains(t, h.copied[0], `"digest"`)
	assert.True(t, strings.HasPrefix(h.game.status, "Snapshot "))
}

func TestStep_ClipboardFailure(t *testing.T) {
	h := newHarness(t, false)
	h.game.copy = func(string) error { return errors.New("no clipboard") }

	h.step(t, input.Sample{}, actionCopySnapshot)
	assert.Equal(t, "Clipboard unavailable", h.game.status)
}

func TestStep_StatusExpires(t *testing.T) {
	h := newHarness(t, false)
	h.game.flash("hello")
	for range statusFrames {
		h.step(t, input.Sample{})
	}
	assert.Empty(t, h.game.status)
}

func TestStep_Quit(t *testing.T) {
	h := newHarness(t, false)
	err := h.game.step(input.Sample{}, []action{actionQuit})
	assert.ErrorIs(t, err, ebiten.Termination)
}

func TestLayout_RelaysBoard(t *testing.T) {
	h := newHarness(t, false)
	before := h.game.game.Layout().Width

	w, hh := h.game.Layout(300, 400)
	assert.Equal(t, 300, w)
	assert.Equal(t, 400, hh)
	assert.InDelta(t, 300-2*margin, h.game.game.Layout().Width, 0.001)
	assert.Less(t, h.game.game.Layout().Width, before)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "M", label(model.KindMoon))
	assert.Equal(t, "X", label(model.KindX))
	assert.Equal(t, "Q", label("quartz"))
}
