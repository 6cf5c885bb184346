package testutil

import (
	"strings"

	"github.com/mcoot/colorwood/internal/model"
)

// Board builds a board from one whitespace-separated stack per slot, listed
// bottom-to-top, e.g. Board(16, "A A B B B", "", "B")
func Board(capacity int, stacks ...string) *model.Board {
	b := model.NewBoard(len(stacks), capacity)
	for i, stack := range stacks {
		for _, k := range strings.Fields(stack) {
			b.Slots[i].Pieces = append(b.Slots[i].Pieces, model.Kind(k))
		}
	}
	return b
}

// Repeat returns a stack string of n pieces of one kind
func Repeat(kind string, n int) string {
	return strings.TrimSpace(strings.Repeat(kind+" ", n))
}

// Stacks renders a board back into the form accepted by Board
func Stacks(b *model.Board) []string {
	out := make([]string, len(b.Slots))
	for i := range b.Slots {
		parts := make([]string, len(b.Slots[i].Pieces))
		for j, k := range b.Slots[i].Pieces {
			parts[j] = string(k)
		}
		out[i] = strings.Join(parts, " ")
	}
	return out
}
