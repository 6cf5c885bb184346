package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/colorwood/internal/model"
	"github.com/mcoot/colorwood/internal/testutil"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func newSession(id model.SessionID) *model.Session {
	return &model.Session{
		ID:     id,
		Config: model.DefaultFreePlayConfig(),
		State:  model.NewGameState(testutil.Board(16, "A B", ""), nil),
	}
}

func (s *StorageSuite) TestSaveAndGetSession() {
	err := s.storage.SaveSession(s.ctx, newSession("S1"))
	s.Require().NoError(err)

	retrieved, err := s.storage.GetSession(s.ctx, "S1")
	s.Require().NoError(err)
	s.Equal(model.SessionID("S1"), retrieved.ID)
	s.Equal([]string{"A B", ""}, testutil.Stacks(retrieved.State.Board))
}

func (s *StorageSuite) TestGetSessionNotFound() {
	_, err := s.storage.GetSession(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestDeleteSession() {
	_ = s.storage.SaveSession(s.ctx, newSession("S1"))

	err := s.storage.DeleteSession(s.ctx, "S1")
	s.Require().NoError(err)

	exists, err := s.storage.SessionExists(s.ctx, "S1")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *StorageSuite) TestListSessionsSorted() {
	_ = s.storage.SaveSession(s.ctx, newSession("S2"))
	_ = s.storage.SaveSession(s.ctx, newSession("S1"))

	ids, err := s.storage.ListSessions(s.ctx)
	s.Require().NoError(err)
	s.Equal([]model.SessionID{"S1", "S2"}, ids)
}
