package response

import (
	"encoding/hex"
	"encoding/json"

	"golang.org/x/crypto/blake2b"

	"github.com/mcoot/colorwood/internal/model"
	"github.com/mcoot/colorwood/internal/services/hint"
	"github.com/mcoot/colorwood/internal/services/moves"
)

// Selection represents the picked-up group
type Selection struct {
	Slot      int `json:"slot"`
	Piece     int `json:"piece"`
	GroupSize int `json:"group_size"`
}

// Drag represents an in-flight gesture
type Drag struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	SnapSlot *int    `json:"snap_slot"`
}

// Session represents a session snapshot in API responses
type Session struct {
	ID               string          `json:"id"`
	Phase            string          `json:"phase"`
	TimerEnabled     bool            `json:"timer_enabled"`
	RemainingSeconds int             `json:"remaining_seconds"`
	HasInteracted    bool            `json:"has_interacted"`
	CTAReached       bool            `json:"cta_reached"`
	Won              bool            `json:"won"`
	Completions      int             `json:"completions"`
	Capacity         int             `json:"capacity"`
	Slots            [][]string      `json:"slots"`
	Selection        *Selection      `json:"selection"`
	Drag             *Drag           `json:"drag,omitempty"`
	Hover            *model.PieceRef `json:"hover,omitempty"`
	Layout           model.Layout    `json:"layout"`
	StoreURL         string          `json:"store_url,omitempty"`
	Digest           string          `json:"digest"`
}

// SessionFromSnapshot converts a model.Snapshot
func SessionFromSnapshot(s model.Snapshot) Session {
	slots := make([][]string, len(s.Board.Slots))
	for i, slot := range s.Board.Slots {
		slots[i] = make([]string, len(slot.Pieces))
		for j, k := range slot.Pieces {
			slots[i][j] = string(k)
		}
	}

	var selection *Selection
	if s.Selection != nil {
		selection = &Selection{
			Slot:      s.Selection.Slot,
			Piece:     s.Selection.Piece,
			GroupSize: s.Selection.GroupSize,
		}
	}

	var drag *Drag
	if s.Drag.Active {
		x, y := s.Drag.Position()
		drag = &Drag{X: x, Y: y}
		if s.Drag.SnapSlot >= 0 {
			snap := s.Drag.SnapSlot
			drag.SnapSlot = &snap
		}
	}

	return Session{
		ID:               string(s.SessionID),
		Phase:            string(s.Phase),
		TimerEnabled:     s.TimerEnabled,
		RemainingSeconds: s.RemainingSeconds,
		HasInteracted:    s.HasInteracted,
		CTAReached:       s.CTAReached,
		Won:              s.Won,
		Completions:      s.Completions,
		Capacity:         s.Capacity,
		Slots:            slots,
		Selection:        selection,
		Drag:             drag,
		Hover:            s.Hover,
		Layout:           s.Layout,
		StoreURL:         s.StoreURL,
		Digest:           s.Digest,
	}
}

// ETag returns a strong entity tag over the whole serialized session, so
// geometry and countdown changes invalidate it as well as rule changes
func (s Session) ETag() string {
	data, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	sum := blake2b.Sum256(data)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

// Move describes the outcome of a drop
type Move struct {
	From      int    `json:"from"`
	To        int    `json:"to"`
	GroupSize int    `json:"group_size"`
	Kind      string `json:"kind,omitempty"`
	Committed bool   `json:"committed"`
	Reason    string `json:"reason,omitempty"`
	Cleared   bool   `json:"cleared"`
}

// MoveFromResult converts a moves.MoveResult
func MoveFromResult(m moves.MoveResult) Move {
	return Move{
		From:      m.From,
		To:        m.To,
		GroupSize: m.GroupSize,
		Kind:      string(m.Kind),
		Committed: m.Reason == "",
		Reason:    string(m.Reason),
		Cleared:   m.Cleared,
	}
}

// PointerResponse is the response after a pointer operation
type PointerResponse struct {
	Accepted bool    `json:"accepted"`
	Move     *Move   `json:"move,omitempty"`
	Session  Session `json:"session"`
}

// SessionList is the response for listing sessions
type SessionList struct {
	Sessions []string `json:"sessions"`
}

// SessionListFromIDs converts session IDs
func SessionListFromIDs(ids []model.SessionID) SessionList {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return SessionList{Sessions: out}
}

// Hint is a suggested move
type Hint struct {
	From      int    `json:"from"`
	To        int    `json:"to"`
	GroupSize int    `json:"group_size"`
	Kind      string `json:"kind"`
	Strategy  string `json:"strategy"`
}

// HintFromMove converts a hint.Move
func HintFromMove(m hint.Move, strategy string) Hint {
	return Hint{
		From:      m.From,
		To:        m.To,
		GroupSize: m.GroupSize,
		Kind:      string(m.Kind),
		Strategy:  strategy,
	}
}
