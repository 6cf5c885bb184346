package completion

import (
	"log/slog"

	"github.com/mcoot/colorwood/internal/dependencies/clock"
	"github.com/mcoot/colorwood/internal/model"
	"github.com/mcoot/colorwood/internal/services/timeline"
)

// Detector clears finished slots and recognises the winning board
type Detector struct {
	timeline *timeline.Service
	clock    clock.Clock
	logger   *slog.Logger
}

// New creates a new completion Detector
func New(timeline *timeline.Service, clock clock.Clock, logger *slog.Logger) *Detector {
	return &Detector{
		timeline: timeline,
		clock:    clock,
		logger:   logger.With(slog.String("component", "completion")),
	}
}

// CheckCompletion empties the slot if it is full of a single kind, then
// checks for a win. Returns true if the slot was cleared.
func (d *Detector) CheckCompletion(state *model.GameState, slot int) bool {
	if !state.Board.IsUniformFull(slot) {
		return false
	}

	kind := state.Board.Top(slot)
	state.Board.Slots[slot].Pieces = state.Board.Slots[slot].Pieces[:0]
	state.Completions++

	now := d.clock.Now()
	state.Emit(model.Event{
		Type:      model.EventSlotCleared,
		Timestamp: now,
		Payload:   model.SlotClearedPayload{Slot: slot, Kind: kind},
	})
	d.logger.Debug("slot cleared",
		slog.Int("slot", slot),
		slog.String("kind", string(kind)),
		slog.Int("completions", state.Completions),
	)

	d.CheckWin(state)
	return true
}

// CheckWin marks the game won once every slot is empty and forces the cta.
// Returns true only on the call that detects the win.
func (d *Detector) CheckWin(state *model.GameState) bool {
	if state.Won || !state.Board.IsClear() {
		return false
	}

	state.Won = true
	now := d.clock.Now()
	state.Emit(model.Event{
		Type:      model.EventGameWon,
		Timestamp: now,
		Payload:   model.GameWonPayload{Completions: state.Completions},
	})
	d.logger.Info("game won", slog.Int("completions", state.Completions))

	for _, e := range d.timeline.ForceCTA(&state.Timeline, model.CTAReasonWin, now) {
		state.Emit(e)
	}
	return true
}
