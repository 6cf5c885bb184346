package board

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/colorwood/internal/dependencies/random"
	"github.com/mcoot/colorwood/internal/model"
)

// Service builds boards and deals pieces onto them
type Service struct {
	random random.Random
	logger *slog.Logger
}

// New creates a new BoardService
func New(random random.Random, logger *slog.Logger) *Service {
	return &Service{
		random: random,
		logger: logger,
	}
}

// Initialize validates the configuration and builds an empty board for it.
// A configuration whose pieces cannot fit is refused with a *model.ConfigError.
func (s *Service) Initialize(cfg model.GameConfig) (*model.Board, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return model.NewBoard(cfg.SlotCount, cfg.Capacity), nil
}

// NewDealtBoard initializes a board and distributes a fresh piece multiset onto it
func (s *Service) NewDealtBoard(cfg model.GameConfig) (*model.Board, error) {
	b, err := s.Initialize(cfg)
	if err != nil {
		return nil, err
	}
	if err := s.DistributeRandomly(b, cfg); err != nil {
		return nil, err
	}
	return b, nil
}

// DistributeRandomly replaces all slot contents with a uniformly shuffled
// multiset of len(cfg.Kinds) * cfg.PiecesPerKind pieces, dealt round-robin in
// slot order and skipping slots that are already full
func (s *Service) DistributeRandomly(b *model.Board, cfg model.GameConfig) error {
	if b.SlotCount() != cfg.SlotCount || b.Capacity != cfg.Capacity {
		return model.NewConfigError("board", "board shape %dx%d does not match configuration %dx%d",
			b.SlotCount(), b.Capacity, cfg.SlotCount, cfg.Capacity)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	pieces := s.shuffledPieces(cfg)

	for i := range b.Slots {
		b.Slots[i].Pieces = b.Slots[i].Pieces[:0]
	}

	next := 0
	for next < len(pieces) {
		placed := false
		for i := range b.Slots {
			if next >= len(pieces) {
				break
			}
			if len(b.Slots[i].Pieces) >= b.Capacity {
				continue
			}
			b.Slots[i].Pieces = append(b.Slots[i].Pieces, pieces[next])
			next++
			placed = true
		}
		if !placed {
			// Unreachable after Validate; guards against an endless deal
			return fmt.Errorf("deal stalled with %d pieces left: %w", len(pieces)-next, model.ErrInvalidConfiguration)
		}
	}

	if s.logger.Enabled(context.Background(), slog.LevelDebug) {
		counts := make([]int, len(b.Slots))
		for i := range b.Slots {
			counts[i] = len(b.Slots[i].Pieces)
		}
		s.logger.Debug("pieces distributed",
			slog.Int("total", b.TotalPieces()),
			slog.Any("per_slot", counts),
		)
	}
	return nil
}

// Reset empties every slot and deals a fresh distribution
func (s *Service) Reset(b *model.Board, cfg model.GameConfig) error {
	for i := range b.Slots {
		b.Slots[i].Pieces = b.Slots[i].Pieces[:0]
	}
	return s.DistributeRandomly(b, cfg)
}

// shuffledPieces builds the full multiset and applies a Fisher-Yates shuffle
func (s *Service) shuffledPieces(cfg model.GameConfig) []model.Kind {
	pieces := make([]model.Kind, 0, cfg.TotalPieces())
	for _, k := range cfg.Kinds {
		for i := 0; i < cfg.PiecesPerKind; i++ {
			pieces = append(pieces, k)
		}
	}
	for i := len(pieces) - 1; i > 0; i-- {
		j := s.random.Intn(i + 1)
		pieces[i], pieces[j] = pieces[j], pieces[i]
	}
	return pieces
}

// Interface for dependency injection
type ServiceInterface interface {
	Initialize(cfg model.GameConfig) (*model.Board, error)
	NewDealtBoard(cfg model.GameConfig) (*model.Board, error)
	DistributeRandomly(b *model.Board, cfg model.GameConfig) error
	Reset(b *model.Board, cfg model.GameConfig) error
}

var _ ServiceInterface = (*Service)(nil)
