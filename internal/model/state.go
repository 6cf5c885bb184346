package model

// PieceRef addresses one piece on the board
type PieceRef struct {
	Slot  int `json:"slot"`
	Piece int `json:"piece"` // Index from the bottom of the stack
}

// Selection is the group picked up by the current gesture
type Selection struct {
	Slot      int `json:"slot"`
	Piece     int `json:"piece"`
	GroupSize int `json:"group_size"`
}

// Drag is the presentational state of an in-flight gesture, in board-local pixels
type Drag struct {
	Active  bool    `json:"active"`
	StartX  float64 `json:"start_x"` // Pointer position at pickup
	StartY  float64 `json:"start_y"`
	OffsetX float64 `json:"offset_x"` // Pointer travel since pickup
	OffsetY float64 `json:"offset_y"`

	// SnapSlot is the slot the magnet is pulling towards, -1 for none
	SnapSlot int `json:"snap_slot"`
}

// Position returns the current pointer position
func (d Drag) Position() (float64, float64) {
	return d.StartX + d.OffsetX, d.StartY + d.OffsetY
}

// GameState is the complete rule state of one game.
// It is mutated only from a single control point per gesture or tick.
type GameState struct {
	Board       *Board     `json:"board"`
	Selection   *Selection `json:"selection,omitempty"`
	Drag        Drag       `json:"drag"`
	Hover       *PieceRef  `json:"hover,omitempty"`
	Timeline    Timeline   `json:"timeline"`
	Completions int        `json:"completions"`
	Won         bool       `json:"won"`

	outbox []Event
}

// NewGameState wraps a board with a fresh timeline
func NewGameState(board *Board, timeline *TimelineConfig) *GameState {
	return &GameState{
		Board:    board,
		Drag:     Drag{SnapSlot: -1},
		Timeline: NewTimeline(timeline),
	}
}

// Emit queues an event for the caller to publish
func (s *GameState) Emit(e Event) {
	s.outbox = append(s.outbox, e)
}

// PendingEvents returns the queued events without removing them
func (s *GameState) PendingEvents() []Event {
	return s.outbox
}

// DrainEvents returns and clears the queued events
func (s *GameState) DrainEvents() []Event {
	events := s.outbox
	s.outbox = nil
	return events
}

// ClearGesture drops the selection and drag state
func (s *GameState) ClearGesture() {
	s.Selection = nil
	s.Drag = Drag{SnapSlot: -1}
}
