package moves

import (
	"fmt"
	"log/slog"

	"github.com/mcoot/colorwood/internal/dependencies/clock"
	"github.com/mcoot/colorwood/internal/model"
	"github.com/mcoot/colorwood/internal/services/completion"
)

// RejectReason explains why a drop did not move anything
type RejectReason string

const (
	ReasonNoSelection  RejectReason = "no_selection"
	ReasonInvalidSlot  RejectReason = "invalid_slot"
	ReasonSameSlot     RejectReason = "same_slot"
	ReasonEmptySource  RejectReason = "empty_source"
	ReasonOverflow     RejectReason = "overflow"
	ReasonKindMismatch RejectReason = "kind_mismatch"
	ReasonTimeUp       RejectReason = "time_up"
)

// MoveResult describes the outcome of a CommitMove call
type MoveResult struct {
	From      int
	To        int
	GroupSize int
	Kind      model.Kind
	Reason    RejectReason // Empty on success
	Cleared   bool         // Destination was completed and emptied
}

// Service owns selection and move legality
type Service struct {
	completion *completion.Detector
	clock      clock.Clock
	logger     *slog.Logger
}

// New creates a new MoveService
func New(completion *completion.Detector, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		completion: completion,
		clock:      clock,
		logger:     logger.With(slog.String("component", "moves")),
	}
}

// TopRunLength returns the size of the group a pickup from the top of the slot would take
func (s *Service) TopRunLength(state *model.GameState, slot int) int {
	return state.Board.TopRunLength(slot)
}

// IsPieceSelectable returns true if the piece and everything above it share one kind
func (s *Service) IsPieceSelectable(state *model.GameState, slot, piece int) bool {
	return state.Board.IsPieceSelectable(slot, piece)
}

// BeginSelection picks up the group from piece to the top of its slot.
// Grabbing lower inside the top run carries more pieces.
func (s *Service) BeginSelection(state *model.GameState, slot, piece int) (*model.Selection, error) {
	if state.Selection != nil {
		return nil, model.ErrSelectionActive
	}
	if !state.Board.IsValidSlot(slot) {
		return nil, fmt.Errorf("%w: slot %d", model.ErrInvalidSlot, slot)
	}
	if !state.Board.IsPieceSelectable(slot, piece) {
		return nil, fmt.Errorf("%w: slot %d piece %d", model.ErrInvalidSelection, slot, piece)
	}

	sel := &model.Selection{
		Slot:      slot,
		Piece:     piece,
		GroupSize: state.Board.RunLengthFrom(slot, piece),
	}
	state.Selection = sel
	state.Emit(model.Event{
		Type:      model.EventSelectionStarted,
		Timestamp: s.clock.Now(),
		Payload: model.SelectionPayload{
			Slot:      slot,
			Piece:     piece,
			GroupSize: sel.GroupSize,
			Kind:      state.Board.Top(slot),
		},
	})
	return sel, nil
}

// CancelSelection drops the active selection without touching the board.
// Returns false if there was nothing to cancel.
func (s *Service) CancelSelection(state *model.GameState) bool {
	sel := state.Selection
	if sel == nil {
		return false
	}
	state.Selection = nil
	state.Emit(model.Event{
		Type:      model.EventSelectionCancelled,
		Timestamp: s.clock.Now(),
		Payload: model.SelectionPayload{
			Slot:      sel.Slot,
			Piece:     sel.Piece,
			GroupSize: sel.GroupSize,
			Kind:      state.Board.Top(sel.Slot),
		},
	})
	return true
}

// IsLegalDestination returns true if the group on top of source could be dropped on dest.
// When source holds the active selection its group size is used.
func (s *Service) IsLegalDestination(state *model.GameState, source, dest int) bool {
	return s.checkDestination(state, source, dest) == ""
}

// LegalDestinations returns every slot the top group of source can move to, in slot order
func (s *Service) LegalDestinations(state *model.GameState, source int) []int {
	var out []int
	for dest := range state.Board.Slots {
		if s.IsLegalDestination(state, source, dest) {
			out = append(out, dest)
		}
	}
	return out
}

// WouldClearBoard returns true if dropping the active selection on dest is
// legal and completes the last pieces on the board
func (s *Service) WouldClearBoard(state *model.GameState, dest int) bool {
	sel := state.Selection
	if sel == nil || s.checkGroup(state, sel.Slot, dest, sel.GroupSize) != "" {
		return false
	}
	b := state.Board
	if b.Len(dest)+sel.GroupSize != b.Capacity || b.TopRunLength(dest) != b.Len(dest) {
		return false
	}
	for i := range b.Slots {
		switch {
		case i == dest:
		case i == sel.Slot:
			if b.Len(i) != sel.GroupSize {
				return false
			}
		case b.Len(i) > 0:
			return false
		}
	}
	return true
}

// CommitMove drops the active selection on dest. On success the group moves
// atomically and the destination is checked for completion. On failure the
// board is unchanged. The selection is cleared either way.
func (s *Service) CommitMove(state *model.GameState, dest int) (MoveResult, bool) {
	sel := state.Selection
	if sel == nil {
		return MoveResult{From: -1, To: dest, Reason: ReasonNoSelection}, false
	}
	state.Selection = nil

	result := MoveResult{
		From:      sel.Slot,
		To:        dest,
		GroupSize: sel.GroupSize,
		Kind:      state.Board.Top(sel.Slot),
	}
	if reason := s.checkGroup(state, sel.Slot, dest, sel.GroupSize); reason != "" {
		result.Reason = reason
		s.emitMove(state, model.EventMoveRejected, result)
		s.logger.Debug("move rejected",
			slog.Int("from", result.From),
			slog.Int("to", result.To),
			slog.String("reason", string(reason)),
		)
		return result, false
	}

	src := &state.Board.Slots[sel.Slot]
	dst := &state.Board.Slots[dest]
	cut := len(src.Pieces) - sel.GroupSize
	dst.Pieces = append(dst.Pieces, src.Pieces[cut:]...)
	src.Pieces = src.Pieces[:cut]

	s.emitMove(state, model.EventMoveCommitted, result)
	s.logger.Debug("move committed",
		slog.Int("from", result.From),
		slog.Int("to", result.To),
		slog.Int("group_size", result.GroupSize),
	)

	result.Cleared = s.completion.CheckCompletion(state, dest)
	return result, true
}

func (s *Service) checkDestination(state *model.GameState, source, dest int) RejectReason {
	size := state.Board.TopRunLength(source)
	if sel := state.Selection; sel != nil && sel.Slot == source {
		size = sel.GroupSize
	}
	return s.checkGroup(state, source, dest, size)
}

// checkGroup applies the drop rules in order and returns the first one broken
func (s *Service) checkGroup(state *model.GameState, source, dest, size int) RejectReason {
	b := state.Board
	switch {
	case !b.IsValidSlot(source) || !b.IsValidSlot(dest):
		return ReasonInvalidSlot
	case source == dest:
		return ReasonSameSlot
	case b.Len(source) == 0 || size <= 0:
		return ReasonEmptySource
	case b.Len(dest)+size > b.Capacity:
		return ReasonOverflow
	case b.Len(dest) > 0 && b.Top(dest) != b.Top(source):
		return ReasonKindMismatch
	}
	return ""
}

func (s *Service) emitMove(state *model.GameState, t model.EventType, r MoveResult) {
	state.Emit(model.Event{
		Type:      t,
		Timestamp: s.clock.Now(),
		Payload: model.MovePayload{
			From:      r.From,
			To:        r.To,
			GroupSize: r.GroupSize,
			Kind:      r.Kind,
			Reason:    string(r.Reason),
		},
	})
}
