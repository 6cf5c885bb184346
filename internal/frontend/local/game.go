// Package local drives a single in-process game for the desktop and
// terminal frontends. It owns the session outright, so unlike the hosted
// session controller there is no storage, locking or broadcasting.
package local

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/colorwood/internal/frontend/input"
	"github.com/mcoot/colorwood/internal/frontend/scene"
	"github.com/mcoot/colorwood/internal/model"
	"github.com/mcoot/colorwood/internal/services/game"
	"github.com/mcoot/colorwood/internal/services/hint"
	"github.com/mcoot/colorwood/internal/services/hittest"
	"github.com/mcoot/colorwood/internal/services/snapshot"
)

// Outcome is what one batch of input did to the game
type Outcome struct {
	Events []model.Event

	// OpenStore is set when the player pressed the CTA button
	OpenStore string
}

// Has reports whether the outcome contains an event of the given type
func (o Outcome) Has(t model.EventType) bool {
	for _, e := range o.Events {
		if e.Type == t {
			return true
		}
	}
	return false
}

// Game is one locally played session
type Game struct {
	controller *game.Controller
	snapshots  *snapshot.Service
	hitTest    *hittest.Service
	hints      *hint.Service
	logger     *slog.Logger

	sess *model.Session
}

// New deals a game laid out for the given viewport width
func New(
	controller *game.Controller,
	snapshots *snapshot.Service,
	hitTest *hittest.Service,
	cfg model.GameConfig,
	viewportWidth float64,
	logger *slog.Logger,
) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sess, err := controller.NewGame(cfg, viewportWidth)
	if err != nil {
		return nil, err
	}
	return &Game{
		controller: controller,
		snapshots:  snapshots,
		hitTest:    hitTest,
		logger:     logger.With(slog.String("component", "local")),
		sess:       sess,
	}, nil
}

// WithHints enables Hint
func (g *Game) WithHints(hints *hint.Service) *Game {
	g.hints = hints
	return g
}

// Hint suggests the next move with the greedy strategy
func (g *Game) Hint() (hint.Move, error) {
	if g.hints == nil {
		return hint.Move{}, fmt.Errorf("hints are not enabled")
	}
	snap, err := g.Snapshot()
	if err != nil {
		return hint.Move{}, err
	}
	return g.hints.Suggest(snap, hint.StrategyGreedy)
}

// HintMessage describes the suggested move for a status line
func (g *Game) HintMessage() string {
	m, err := g.Hint()
	switch {
	case errors.Is(err, model.ErrNotInGameplay):
		return "Hints are only available during play"
	case errors.Is(err, model.ErrNoMoves):
		return "No moves left, press r for a new board"
	case err != nil:
		g.logger.Warn("hint failed", slog.String("error", err.Error()))
		return "No hint available"
	}
	return fmt.Sprintf("Hint: slot %d to slot %d", m.From, m.To)
}

// Tick advances the timeline to the clock's current reading
func (g *Game) Tick() Outcome {
	g.controller.Tick(g.sess)
	return g.drain()
}

// Apply feeds board-local pointer operations through the controller.
// A press on the intro overlay dismisses it; a press on the CTA button
// reports the store link.
func (g *Game) Apply(ops []input.Op) Outcome {
	var out Outcome
	for _, op := range ops {
		switch op.Type {
		case model.PointerDown:
			switch g.Phase() {
			case model.PhaseIntro:
				g.controller.DismissIntro(g.sess)
			case model.PhaseCTA:
				if url := g.sess.Config.StoreURL; url != "" && g.hitTest.CTAButton(g.sess.Layout).Contains(op.X, op.Y) {
					out.OpenStore = url
				}
			default:
				g.controller.PointerDown(g.sess, op.X, op.Y)
			}
		case model.PointerMove:
			g.controller.PointerMove(g.sess, op.X, op.Y)
		case model.PointerUp:
			if result, ok := g.controller.PointerUp(g.sess, op.X, op.Y); !ok && result.Reason != "" {
				g.logger.Debug("drop refused", slog.String("reason", string(result.Reason)))
			}
		case model.PointerLeave:
			g.controller.PointerLeave(g.sess)
		}
	}
	out.Events = append(out.Events, g.drain().Events...)
	return out
}

// Dismiss skips the intro overlay
func (g *Game) Dismiss() Outcome {
	g.controller.DismissIntro(g.sess)
	return g.drain()
}

// Reset deals a new board. Fails with model.ErrNotInGameplay outside gameplay.
func (g *Game) Reset() (Outcome, error) {
	if err := g.controller.Reset(g.sess); err != nil {
		return g.drain(), err
	}
	return g.drain(), nil
}

// Resize lays the board out for a new viewport width
func (g *Game) Resize(viewportWidth float64) error {
	if viewportWidth == g.sess.ViewportWidth {
		return nil
	}
	return g.controller.Relayout(g.sess, viewportWidth)
}

// Phase returns the current timeline phase
func (g *Game) Phase() model.Phase {
	return g.sess.State.Timeline.Phase
}

// Layout returns the current board geometry
func (g *Game) Layout() model.Layout {
	return g.sess.Layout
}

// Snapshot returns the renderer view of the game
func (g *Game) Snapshot() (model.Snapshot, error) {
	return g.snapshots.Build(g.sess)
}

// Scene returns the draw list for this frame with the held group pulled
// towards its snap slot
func (g *Game) Scene() (scene.Scene, error) {
	snap, err := g.Snapshot()
	if err != nil {
		return scene.Scene{}, err
	}
	sc := scene.Build(snap, g.hitTest)
	if x, y, ok := g.controller.DraggedGroupOrigin(g.sess); ok {
		sc.MoveGroup(x, y)
	}
	return sc, nil
}

func (g *Game) drain() Outcome {
	return Outcome{Events: g.sess.State.DrainEvents()}
}
