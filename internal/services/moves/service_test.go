package moves

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/colorwood/internal/dependencies/mocks"
	"github.com/mcoot/colorwood/internal/model"
	"github.com/mcoot/colorwood/internal/services/completion"
	"github.com/mcoot/colorwood/internal/services/timeline"
	"github.com/mcoot/colorwood/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	clock   *mocks.MockClock
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	logger := testutil.NopLogger()
	detector := completion.New(timeline.New(logger), s.clock, logger)
	s.service = New(detector, s.clock, logger)
}

func state(capacity int, stacks ...string) *model.GameState {
	return model.NewGameState(testutil.Board(capacity, stacks...), nil)
}

func types(events []model.Event) []model.EventType {
	out := make([]model.EventType, len(events))
	for i, e := range events {
		out[i] = e.Type
	}
	return out
}

// BeginSelection tests

func (s *ServiceSuite) TestBeginSelectionTakesPiecesFromGrabToTop() {
	st := state(16, "A A B B B", "")

	sel, err := s.service.BeginSelection(st, 0, 2)
	s.Require().NoError(err)
	s.Equal(model.Selection{Slot: 0, Piece: 2, GroupSize: 3}, *sel)
	s.Equal(sel, st.Selection)

	events := st.DrainEvents()
	s.Equal([]model.EventType{model.EventSelectionStarted}, types(events))
	s.Equal(model.Kind("B"), events[0].Payload.(model.SelectionPayload).Kind)
}

func (s *ServiceSuite) TestBeginSelectionFromTopTakesOnePiece() {
	st := state(16, "A A B B B", "")

	sel, err := s.service.BeginSelection(st, 0, 4)
	s.Require().NoError(err)
	s.Equal(1, sel.GroupSize)
	s.Equal(3, s.service.TopRunLength(st, 0))

	_, ok := s.service.CommitMove(st, 1)
	s.Require().True(ok)
	s.Equal([]string{"A A B B", "B"}, testutil.Stacks(st.Board))
}

func (s *ServiceSuite) TestBeginSelectionRejectsBuriedPiece() {
	st := state(16, "A A B B B")

	_, err := s.service.BeginSelection(st, 0, 1)
	s.ErrorIs(err, model.ErrInvalidSelection)
	s.Nil(st.Selection)
	s.Empty(st.PendingEvents())
}

func (s *ServiceSuite) TestBeginSelectionRejectsEmptySlot() {
	st := state(16, "", "A")

	_, err := s.service.BeginSelection(st, 0, 0)
	s.ErrorIs(err, model.ErrInvalidSelection)

	_, err = s.service.BeginSelection(st, 9, 0)
	s.ErrorIs(err, model.ErrInvalidSlot)
}

func (s *ServiceSuite) TestBeginSelectionRefusesSecondSelection() {
	st := state(16, "A", "B")
	_, err := s.service.BeginSelection(st, 0, 0)
	s.Require().NoError(err)

	_, err = s.service.BeginSelection(st, 1, 0)
	s.ErrorIs(err, model.ErrSelectionActive)
	s.Equal(0, st.Selection.Slot)
}

func (s *ServiceSuite) TestCancelSelection() {
	st := state(16, "A")
	s.False(s.service.CancelSelection(st))

	_, err := s.service.BeginSelection(st, 0, 0)
	s.Require().NoError(err)
	st.DrainEvents()

	s.True(s.service.CancelSelection(st))
	s.Nil(st.Selection)
	s.Equal([]string{"A"}, testutil.Stacks(st.Board))
	s.Equal([]model.EventType{model.EventSelectionCancelled}, types(st.DrainEvents()))
}

// IsLegalDestination tests

func (s *ServiceSuite) TestLegalDestinationRules() {
	st := state(4, "A B B", "", "B", "A", "B B B", "B B")

	s.False(s.service.IsLegalDestination(st, 0, 0), "same slot")
	s.False(s.service.IsLegalDestination(st, 1, 2), "empty source")
	s.True(s.service.IsLegalDestination(st, 0, 1), "empty destination")
	s.True(s.service.IsLegalDestination(st, 0, 2), "matching top")
	s.False(s.service.IsLegalDestination(st, 0, 3), "kind mismatch")
	s.False(s.service.IsLegalDestination(st, 0, 4), "overflow")
	s.True(s.service.IsLegalDestination(st, 0, 5), "fills exactly")
	s.False(s.service.IsLegalDestination(st, 0, 8), "out of range")
}

func (s *ServiceSuite) TestLegalDestinations() {
	st := state(4, "A B B", "", "B", "A", "B B B", "B B")

	s.Equal([]int{1, 2, 5}, s.service.LegalDestinations(st, 0))
	s.Empty(s.service.LegalDestinations(st, 1))
}

// CommitMove tests

func (s *ServiceSuite) TestCommitMovePreservesOrderAndClearsSelection() {
	st := state(16, "A C C", "C")
	_, err := s.service.BeginSelection(st, 0, 1)
	s.Require().NoError(err)
	st.DrainEvents()

	result, ok := s.service.CommitMove(st, 1)
	s.Require().True(ok)
	s.Equal(MoveResult{From: 0, To: 1, GroupSize: 2, Kind: "C"}, result)
	s.Equal([]string{"A", "C C C"}, testutil.Stacks(st.Board))
	s.Nil(st.Selection)
	s.Equal([]model.EventType{model.EventMoveCommitted}, types(st.DrainEvents()))
}

func (s *ServiceSuite) TestCommitMoveRejectsKindMismatchWithoutMutation() {
	st := state(16, "C B B", "A")
	before := st.Board.Clone()
	_, err := s.service.BeginSelection(st, 0, 2)
	s.Require().NoError(err)
	st.DrainEvents()

	result, ok := s.service.CommitMove(st, 1)
	s.False(ok)
	s.Equal(ReasonKindMismatch, result.Reason)
	s.True(before.Equal(st.Board))
	s.Nil(st.Selection)

	events := st.DrainEvents()
	s.Equal([]model.EventType{model.EventMoveRejected}, types(events))
	s.Equal("kind_mismatch", events[0].Payload.(model.MovePayload).Reason)
}

func (s *ServiceSuite) TestCommitMoveRejectsOverflowWithoutMutation() {
	st := state(3, "B B", "B B")
	_, err := s.service.BeginSelection(st, 0, 0)
	s.Require().NoError(err)

	result, ok := s.service.CommitMove(st, 1)
	s.False(ok)
	s.Equal(ReasonOverflow, result.Reason)
	s.Equal([]string{"B B", "B B"}, testutil.Stacks(st.Board))
}

func (s *ServiceSuite) TestCommitMoveOnSourceIsRejected() {
	st := state(16, "A", "")
	_, err := s.service.BeginSelection(st, 0, 0)
	s.Require().NoError(err)

	result, ok := s.service.CommitMove(st, 0)
	s.False(ok)
	s.Equal(ReasonSameSlot, result.Reason)
	s.Nil(st.Selection)
}

func (s *ServiceSuite) TestCommitMoveWithoutSelection() {
	st := state(16, "A", "")

	result, ok := s.service.CommitMove(st, 1)
	s.False(ok)
	s.Equal(ReasonNoSelection, result.Reason)
	s.Empty(st.PendingEvents())
}

func (s *ServiceSuite) TestCommitMoveToInvalidSlot() {
	st := state(16, "A", "")
	_, err := s.service.BeginSelection(st, 0, 0)
	s.Require().NoError(err)

	result, ok := s.service.CommitMove(st, -1)
	s.False(ok)
	s.Equal(ReasonInvalidSlot, result.Reason)
	s.Nil(st.Selection)
}

func (s *ServiceSuite) TestCommitMoveCompletesSlot() {
	st := state(4, "A A", "A A", "B")
	_, err := s.service.BeginSelection(st, 0, 0)
	s.Require().NoError(err)
	st.DrainEvents()

	result, ok := s.service.CommitMove(st, 1)
	s.Require().True(ok)
	s.True(result.Cleared)
	s.Equal([]string{"", "", "B"}, testutil.Stacks(st.Board))
	s.Equal(1, st.Completions)
	s.False(st.Won)
	s.Equal([]model.EventType{model.EventMoveCommitted, model.EventSlotCleared}, types(st.DrainEvents()))
}

func (s *ServiceSuite) TestFinalMoveWinsTimedGame() {
	cfg := model.DefaultTimelineConfig()
	st := model.NewGameState(testutil.Board(2, "A", "A"), &cfg)
	tl := timeline.New(testutil.NopLogger())
	tl.Tick(&st.Timeline, s.clock.Now())
	tl.DismissIntro(&st.Timeline, s.clock.Now())

	_, err := s.service.BeginSelection(st, 1, 0)
	s.Require().NoError(err)
	st.DrainEvents()

	_, ok := s.service.CommitMove(st, 0)
	s.Require().True(ok)
	s.True(st.Won)
	s.Equal(model.PhaseCTA, st.Timeline.Phase)
	s.Equal([]model.EventType{
		model.EventMoveCommitted,
		model.EventSlotCleared,
		model.EventGameWon,
		model.EventPhaseChanged,
		model.EventCTAReached,
	}, types(st.DrainEvents()))
}

func (s *ServiceSuite) TestPiecesAreConserved() {
	st := state(16, "A B A B", "B", "A A", "")
	before := st.Board.CountByKind()

	moves := [][2]int{{0, 1}, {0, 2}, {1, 3}, {2, 0}, {3, 2}}
	for _, m := range moves {
		top := st.Board.Len(m[0]) - 1
		if _, err := s.service.BeginSelection(st, m[0], top); err != nil {
			continue
		}
		s.service.CommitMove(st, m[1])
		s.Equal(before, st.Board.CountByKind())
		for i := range st.Board.Slots {
			s.LessOrEqual(st.Board.Len(i), st.Board.Capacity)
		}
	}
}

// WouldClearBoard tests

func (s *ServiceSuite) TestWouldClearBoard() {
	tests := []struct {
		name   string
		stacks []string
		grab   [2]int
		dest   int
		want   bool
	}{
		{"last pieces merge", []string{"A", "A"}, [2]int{1, 0}, 0, true},
		{"onto empty slot", []string{"A A", ""}, [2]int{0, 0}, 1, true},
		{"source keeps pieces", []string{"B A", "A"}, [2]int{0, 1}, 1, false},
		{"another slot still full", []string{"A", "A", "B"}, [2]int{1, 0}, 0, false},
		{"destination not filled", []string{"A", ""}, [2]int{0, 0}, 1, false},
		{"illegal drop", []string{"A", "B"}, [2]int{0, 0}, 1, false},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			st := state(2, tt.stacks...)
			_, err := s.service.BeginSelection(st, tt.grab[0], tt.grab[1])
			s.Require().NoError(err)
			before := testutil.Stacks(st.Board)

			s.Equal(tt.want, s.service.WouldClearBoard(st, tt.dest))
			s.Equal(before, testutil.Stacks(st.Board))
		})
	}
}

func (s *ServiceSuite) TestWouldClearBoardWithoutSelection() {
	s.False(s.service.WouldClearBoard(state(2, "A", "A"), 0))
}
