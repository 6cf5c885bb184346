package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	// Gesture events
	EventSelectionStarted   EventType = "selection_started"
	EventSelectionCancelled EventType = "selection_cancelled"
	EventMoveCommitted      EventType = "move_committed"
	EventMoveRejected       EventType = "move_rejected"

	// Completion events
	EventSlotCleared EventType = "slot_cleared"
	EventGameWon     EventType = "game_won"

	// Lifecycle events
	EventPhaseChanged EventType = "phase_changed"
	EventCTAReached   EventType = "cta_reached"
	EventBoardReset   EventType = "board_reset"
)

// Event is the base structure for all events
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	SessionID SessionID `json:"session_id,omitempty"` // Empty outside a hosted session
	Payload   any       `json:"payload,omitempty"`
}

// SelectionPayload contains data for selection events
type SelectionPayload struct {
	Slot      int  `json:"slot"`
	Piece     int  `json:"piece"`
	GroupSize int  `json:"group_size"`
	Kind      Kind `json:"kind"`
}

// MovePayload contains data for move committed/rejected events
type MovePayload struct {
	From      int    `json:"from"`
	To        int    `json:"to"`
	GroupSize int    `json:"group_size"`
	Kind      Kind   `json:"kind,omitempty"`
	Reason    string `json:"reason,omitempty"` // Set on rejection
}

// SlotClearedPayload contains data for slot cleared events
type SlotClearedPayload struct {
	Slot int  `json:"slot"`
	Kind Kind `json:"kind"`
}

// PhaseChangedPayload contains data for phase changed events
type PhaseChangedPayload struct {
	From Phase `json:"from"`
	To   Phase `json:"to"`
}

// CTAReachedPayload contains data for the cta reached event
type CTAReachedPayload struct {
	Reason   CTAReason `json:"reason"`
	StoreURL string    `json:"store_url,omitempty"`
}

// GameWonPayload contains data for the game won event
type GameWonPayload struct {
	Completions int `json:"completions"`
}
