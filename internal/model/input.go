package model

import "fmt"

// PointerOp is one step of a board-local pointer gesture
type PointerOp string

const (
	PointerDown  PointerOp = "down"
	PointerMove  PointerOp = "move"
	PointerUp    PointerOp = "up"
	PointerLeave PointerOp = "leave"
)

// ParsePointerOp validates a pointer operation name
func ParsePointerOp(s string) (PointerOp, error) {
	switch op := PointerOp(s); op {
	case PointerDown, PointerMove, PointerUp, PointerLeave:
		return op, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPointerOp, s)
	}
}
