package hint

import (
	"github.com/mcoot/colorwood/internal/dependencies/random"
	"github.com/mcoot/colorwood/internal/model"
)

// Strategy names
const (
	StrategyGreedy = "greedy"
	StrategyRandom = "random"
)

// Move is a suggested transfer of the top run of From onto To
type Move struct {
	From      int
	To        int
	GroupSize int
	Kind      model.Kind
}

// Strategy picks one move from a non-empty list of legal candidates
type Strategy interface {
	ChooseMove(b *model.Board, candidates []Move) Move
}

// RandomStrategy picks any legal move
type RandomStrategy struct {
	random random.Random
}

// NewRandomStrategy creates a new RandomStrategy
func NewRandomStrategy(rnd random.Random) *RandomStrategy {
	return &RandomStrategy{random: rnd}
}

// ChooseMove returns a uniformly random candidate
func (s *RandomStrategy) ChooseMove(_ *model.Board, candidates []Move) Move {
	return candidates[s.random.Intn(len(candidates))]
}

// GreedyStrategy prefers moves that complete a slot, then moves onto a
// matching run. Ties go to the lowest (From, To).
type GreedyStrategy struct{}

// NewGreedyStrategy creates a new GreedyStrategy
func NewGreedyStrategy() *GreedyStrategy {
	return &GreedyStrategy{}
}

// ChooseMove returns the best scoring candidate
func (s *GreedyStrategy) ChooseMove(b *model.Board, candidates []Move) Move {
	best, bestScore := candidates[0], score(b, candidates[0])
	for _, m := range candidates[1:] {
		if sc := score(b, m); sc > bestScore {
			best, bestScore = m, sc
		}
	}
	return best
}

func score(b *model.Board, m Move) int {
	destLen := b.Len(m.To)
	switch {
	case destLen+m.GroupSize == b.Capacity && (destLen == 0 || b.TopRunLength(m.To) == destLen):
		return 1000 + m.GroupSize
	case destLen > 0:
		return 100 + b.TopRunLength(m.To) + m.GroupSize
	case m.GroupSize == b.Len(m.From):
		// Moving a whole uniform slot into an empty one changes nothing
		return 0
	default:
		return 10 + m.GroupSize
	}
}
