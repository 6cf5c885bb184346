// Package input turns polled pointer state into the board-local gesture
// operations the game controller consumes.
package input

import "github.com/mcoot/colorwood/internal/model"

// Sample is one frame's view of the pointer in window coordinates
type Sample struct {
	X, Y    float64
	Pressed bool
	Inside  bool // Pointer is within the window
}

// Op is a pointer operation in board-local coordinates
type Op struct {
	Type model.PointerOp
	X, Y float64
}

// Tracker converts per-frame samples into down/move/up/leave edges.
// OriginX and OriginY map window coordinates onto the board.
type Tracker struct {
	OriginX float64
	OriginY float64

	pressed bool
	inside  bool
	lastX   float64
	lastY   float64
	seen    bool
}

// NewTracker creates a Tracker for a board drawn at the given window origin
func NewTracker(originX, originY float64) *Tracker {
	return &Tracker{OriginX: originX, OriginY: originY}
}

// Update consumes one sample and returns the operations it implies, in order
func (t *Tracker) Update(s Sample) []Op {
	x, y := s.X-t.OriginX, s.Y-t.OriginY
	var ops []Op

	if !s.Inside {
		if t.inside || t.pressed {
			ops = append(ops, Op{Type: model.PointerLeave})
		}
		t.inside, t.pressed, t.seen = false, false, false
		return ops
	}
	t.inside = true

	moved := !t.seen || x != t.lastX || y != t.lastY
	switch {
	case s.Pressed && !t.pressed:
		if moved && t.seen {
			ops = append(ops, Op{Type: model.PointerMove, X: x, Y: y})
		}
		ops = append(ops, Op{Type: model.PointerDown, X: x, Y: y})
	case !s.Pressed && t.pressed:
		if moved {
			ops = append(ops, Op{Type: model.PointerMove, X: x, Y: y})
		}
		ops = append(ops, Op{Type: model.PointerUp, X: x, Y: y})
	case moved:
		ops = append(ops, Op{Type: model.PointerMove, X: x, Y: y})
	}

	t.pressed = s.Pressed
	t.lastX, t.lastY, t.seen = x, y, true
	return ops
}

// Pressed returns true while a press is in progress
func (t *Tracker) Pressed() bool {
	return t.pressed
}
