package model

// Slot is one board column holding a stack of pieces, bottom-to-top
type Slot struct {
	Pieces []Kind `json:"pieces"`
}

// Len returns the number of pieces in the slot
func (s *Slot) Len() int {
	return len(s.Pieces)
}

// IsEmpty returns true if the slot holds no pieces
func (s *Slot) IsEmpty() bool {
	return len(s.Pieces) == 0
}

// Top returns the kind of the top piece, or "" if the slot is empty
func (s *Slot) Top() Kind {
	if len(s.Pieces) == 0 {
		return ""
	}
	return s.Pieces[len(s.Pieces)-1]
}

// Board is the fixed, ordered collection of slots
type Board struct {
	Capacity int    `json:"capacity"`
	Slots    []Slot `json:"slots"`
}

// NewBoard creates a board of slotCount empty slots
func NewBoard(slotCount, capacity int) *Board {
	slots := make([]Slot, slotCount)
	for i := range slots {
		slots[i].Pieces = make([]Kind, 0, capacity)
	}
	return &Board{
		Capacity: capacity,
		Slots:    slots,
	}
}

// SlotCount returns the number of slots
func (b *Board) SlotCount() int {
	return len(b.Slots)
}

// IsValidSlot returns true if the index addresses a slot
func (b *Board) IsValidSlot(slot int) bool {
	return slot >= 0 && slot < len(b.Slots)
}

// Len returns the stack height of a slot, or 0 for an invalid index
func (b *Board) Len(slot int) int {
	if !b.IsValidSlot(slot) {
		return 0
	}
	return len(b.Slots[slot].Pieces)
}

// Top returns the top kind of a slot, or "" if empty or invalid
func (b *Board) Top(slot int) Kind {
	if !b.IsValidSlot(slot) {
		return ""
	}
	return b.Slots[slot].Top()
}

// Get returns the kind at (slot, piece), or "" if out of range
func (b *Board) Get(slot, piece int) Kind {
	if !b.IsValidSlot(slot) || piece < 0 || piece >= len(b.Slots[slot].Pieces) {
		return ""
	}
	return b.Slots[slot].Pieces[piece]
}

// TotalPieces returns the number of pieces across all slots
func (b *Board) TotalPieces() int {
	total := 0
	for i := range b.Slots {
		total += len(b.Slots[i].Pieces)
	}
	return total
}

// IsClear returns true if every slot is empty
func (b *Board) IsClear() bool {
	for i := range b.Slots {
		if len(b.Slots[i].Pieces) > 0 {
			return false
		}
	}
	return true
}

// CountByKind returns how many pieces of each kind are on the board
func (b *Board) CountByKind() map[Kind]int {
	counts := make(map[Kind]int)
	for i := range b.Slots {
		for _, k := range b.Slots[i].Pieces {
			counts[k]++
		}
	}
	return counts
}

// RunLengthFrom returns the number of contiguous pieces matching the kind at
// (slot, piece), counted from that piece upward. Returns 0 if out of range.
func (b *Board) RunLengthFrom(slot, piece int) int {
	kind := b.Get(slot, piece)
	if kind == "" {
		return 0
	}
	pieces := b.Slots[slot].Pieces
	n := 1
	for i := piece + 1; i < len(pieces); i++ {
		if pieces[i] != kind {
			break
		}
		n++
	}
	return n
}

// TopRunLength returns the length of the same-kind run at the top of a slot,
// or 0 if the slot is empty or invalid
func (b *Board) TopRunLength(slot int) int {
	if !b.IsValidSlot(slot) {
		return 0
	}
	pieces := b.Slots[slot].Pieces
	if len(pieces) == 0 {
		return 0
	}
	top := pieces[len(pieces)-1]
	n := 0
	for i := len(pieces) - 1; i >= 0 && pieces[i] == top; i-- {
		n++
	}
	return n
}

// IsPieceSelectable returns true if every piece from the given index to the
// top of the slot shares one kind
func (b *Board) IsPieceSelectable(slot, piece int) bool {
	if b.Get(slot, piece) == "" {
		return false
	}
	return b.RunLengthFrom(slot, piece) == len(b.Slots[slot].Pieces)-piece
}

// IsUniformFull returns true if the slot is at capacity with a single kind
func (b *Board) IsUniformFull(slot int) bool {
	if !b.IsValidSlot(slot) || b.Capacity <= 0 {
		return false
	}
	return len(b.Slots[slot].Pieces) == b.Capacity && b.TopRunLength(slot) == b.Capacity
}

// Clone returns a deep copy of the board
func (b *Board) Clone() *Board {
	slots := make([]Slot, len(b.Slots))
	for i := range b.Slots {
		slots[i].Pieces = append(make([]Kind, 0, b.Capacity), b.Slots[i].Pieces...)
	}
	return &Board{
		Capacity: b.Capacity,
		Slots:    slots,
	}
}

// Equal returns true if both boards hold the same kinds in the same order
func (b *Board) Equal(other *Board) bool {
	if other == nil || b.Capacity != other.Capacity || len(b.Slots) != len(other.Slots) {
		return false
	}
	for i := range b.Slots {
		a, o := b.Slots[i].Pieces, other.Slots[i].Pieces
		if len(a) != len(o) {
			return false
		}
		for j := range a {
			if a[j] != o[j] {
				return false
			}
		}
	}
	return true
}
