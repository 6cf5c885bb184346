// Package hint suggests moves for a board, for players who are stuck and for
// automated play
package hint

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/mcoot/colorwood/internal/dependencies/random"
	"github.com/mcoot/colorwood/internal/model"
	"github.com/mcoot/colorwood/internal/services/moves"
)

// Service picks moves with a named strategy
type Service struct {
	moves      *moves.Service
	strategies map[string]Strategy
	logger     *slog.Logger
}

// New creates a HintService with the greedy and random strategies
func New(moveService *moves.Service, rnd random.Random, logger *slog.Logger) *Service {
	return &Service{
		moves: moveService,
		strategies: map[string]Strategy{
			StrategyGreedy: NewGreedyStrategy(),
			StrategyRandom: NewRandomStrategy(rnd),
		},
		logger: logger.With(slog.String("component", "hint")),
	}
}

// Strategies returns the registered strategy names in sorted order
func (s *Service) Strategies() []string {
	names := make([]string, 0, len(s.strategies))
	for name := range s.strategies {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Candidates lists every legal move of a slot's top run, ordered by source
// then destination
func (s *Service) Candidates(b *model.Board) []Move {
	st := &model.GameState{Board: b}
	var out []Move
	for from := range b.Slots {
		if b.Len(from) == 0 {
			continue
		}
		for _, to := range s.moves.LegalDestinations(st, from) {
			out = append(out, Move{
				From:      from,
				To:        to,
				GroupSize: b.TopRunLength(from),
				Kind:      b.Top(from),
			})
		}
	}
	return out
}

// Suggest picks a move for the snapshot's board. An empty strategy means greedy.
func (s *Service) Suggest(snap model.Snapshot, strategy string) (Move, error) {
	if strategy == "" {
		strategy = StrategyGreedy
	}
	strat, ok := s.strategies[strategy]
	if !ok {
		return Move{}, fmt.Errorf("%w: %q", model.ErrUnknownStrategy, strategy)
	}
	if snap.Phase != model.PhaseGameplay {
		return Move{}, model.ErrNotInGameplay
	}

	candidates := s.Candidates(snap.Board)
	if len(candidates) == 0 {
		return Move{}, model.ErrNoMoves
	}
	m := strat.ChooseMove(snap.Board, candidates)
	s.logger.Debug("hint",
		slog.String("strategy", strategy),
		slog.Int("from", m.From),
		slog.Int("to", m.To),
		slog.Int("candidates", len(candidates)),
	)
	return m, nil
}
