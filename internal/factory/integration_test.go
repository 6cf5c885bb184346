package factory

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/colorwood/internal/model"
	redisstorage "github.com/mcoot/colorwood/internal/storage/redis"
	"github.com/mcoot/colorwood/internal/testutil"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

// tinyConfig deals one "a" piece onto each of two slots of capacity 2
func tinyConfig(timed bool) model.GameConfig {
	cfg := model.DefaultGameConfig()
	if !timed {
		cfg.Timeline = nil
	}
	cfg.SlotCount = 2
	cfg.Capacity = 2
	cfg.Kinds = []model.Kind{"a"}
	cfg.PiecesPerKind = 2
	return cfg
}

// drag moves the top piece of from onto to with a down/move/up gesture
func (s *IntegrationSuite) drag(id model.SessionID, layout model.Layout, from, to int) model.Snapshot {
	pr, ok := s.app.HitTestService.PieceRect(layout, from, 0)
	s.Require().True(ok)
	x, y := pr.Center()
	tx, ty := layout.Slots[to].Center()

	res, err := s.app.SessionController.Pointer(s.ctx, id, model.PointerDown, x, y)
	s.Require().NoError(err)
	s.Require().True(res.Accepted)

	_, err = s.app.SessionController.Pointer(s.ctx, id, model.PointerMove, tx, ty)
	s.Require().NoError(err)

	res, err = s.app.SessionController.Pointer(s.ctx, id, model.PointerUp, tx, ty)
	s.Require().NoError(err)
	s.Require().True(res.Accepted)
	s.Require().NotNil(res.Move)
	s.True(res.Move.Cleared)
	return res.Snapshot
}

// Test: timed ad from intro to a winning cta
func (s *IntegrationSuite) TestTimedAdWin() {
	s.app.MockRandom.QueueString("SESSION001")

	snap, err := s.app.SessionController.Create(s.ctx, tinyConfig(true), 600)
	s.Require().NoError(err)
	s.Equal(model.PhaseIntro, snap.Phase)
	s.Equal(25, snap.RemainingSeconds)

	// Input during the intro is ignored
	pr, _ := s.app.HitTestService.PieceRect(snap.Layout, 0, 0)
	x, y := pr.Center()
	res, err := s.app.SessionController.Pointer(s.ctx, "SESSION001", model.PointerDown, x, y)
	s.Require().NoError(err)
	s.False(res.Accepted)

	s.app.MockClock.Advance(3 * time.Second)
	snap, err = s.app.SessionController.DismissIntro(s.ctx, "SESSION001")
	s.Require().NoError(err)
	s.Equal(model.PhaseGameplay, snap.Phase)

	snap = s.drag("SESSION001", snap.Layout, 0, 1)
	s.True(snap.Won)
	s.True(snap.CTAReached)
	s.Equal(model.PhaseCTA, snap.Phase)
	s.Equal(1, snap.Completions)
	s.True(snap.Board.IsClear())
	s.Equal(model.DefaultGameConfig().StoreURL, snap.StoreURL)

	// The cta is terminal
	_, err = s.app.SessionController.Reset(s.ctx, "SESSION001")
	s.ErrorIs(err, model.ErrNotInGameplay)

	s.app.MockClock.Advance(time.Minute)
	snap, err = s.app.SessionController.Get(s.ctx, "SESSION001")
	s.Require().NoError(err)
	s.Equal(model.PhaseCTA, snap.Phase)
	s.Equal(0, snap.RemainingSeconds)
}

// Test: the timer forces the cta when nobody plays
func (s *IntegrationSuite) TestTimedAdTimeout() {
	s.app.MockRandom.QueueString("SESSION001")
	_, err := s.app.SessionController.Create(s.ctx, tinyConfig(true), 600)
	s.Require().NoError(err)

	_, err = s.app.SessionController.Get(s.ctx, "SESSION001")
	s.Require().NoError(err)

	s.app.MockClock.Advance(25 * time.Second)
	snap, err := s.app.SessionController.Get(s.ctx, "SESSION001")
	s.Require().NoError(err)
	s.Equal(model.PhaseCTA, snap.Phase)
	s.False(snap.Won)
	s.Equal(2, snap.Board.TotalPieces())
}

// Test: free play keeps going after a win and can be reset
func (s *IntegrationSuite) TestFreePlayWinAndReset() {
	s.app.MockRandom.QueueString("SESSION001")
	snap, err := s.app.SessionController.Create(s.ctx, tinyConfig(false), 600)
	s.Require().NoError(err)
	s.Equal(model.PhaseGameplay, snap.Phase)
	s.False(snap.TimerEnabled)

	snap = s.drag("SESSION001", snap.Layout, 0, 1)
	s.True(snap.Won)
	s.False(snap.CTAReached)
	s.Equal(model.PhaseGameplay, snap.Phase)

	snap, err = s.app.SessionController.Reset(s.ctx, "SESSION001")
	s.Require().NoError(err)
	s.False(snap.Won)
	s.Equal(0, snap.Completions)
	s.Equal([]string{"a", "a"}, testutil.Stacks(snap.Board))
}

// Test: following the hint clears the board
func (s *IntegrationSuite) TestHintSolvesBoard() {
	s.app.MockRandom.QueueString("SESSION001")
	snap, err := s.app.SessionController.Create(s.ctx, tinyConfig(false), 600)
	s.Require().NoError(err)

	m, err := s.app.HintService.Suggest(snap, "")
	s.Require().NoError(err)
	s.Equal(0, m.From)
	s.Equal(1, m.To)

	snap = s.drag("SESSION001", snap.Layout, m.From, m.To)
	s.True(snap.Board.IsClear())

	_, err = s.app.HintService.Suggest(snap, "")
	s.ErrorIs(err, model.ErrNoMoves)
}

// Test: sessions survive a round trip through redis
func (s *IntegrationSuite) TestRedisBackedSession() {
	mini := miniredis.RunT(s.T())
	client := goredis.NewClient(&goredis.Options{Addr: mini.Addr()})
	store := redisstorage.NewWithClient(client, redisstorage.DefaultConfig())
	defer func() { _ = store.Close() }()

	app := newWithDependencies(store, s.app.MockClock, s.app.MockRandom, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.app.MockRandom.QueueString("REDIS00001")

	snap, err := app.SessionController.Create(s.ctx, tinyConfig(false), 600)
	s.Require().NoError(err)

	pr, _ := app.HitTestService.PieceRect(snap.Layout, 0, 0)
	x, y := pr.Center()
	res, err := app.SessionController.Pointer(s.ctx, "REDIS00001", model.PointerDown, x, y)
	s.Require().NoError(err)
	s.True(res.Accepted)

	// The selection was persisted between requests
	snap, err = app.SessionController.Get(s.ctx, "REDIS00001")
	s.Require().NoError(err)
	s.Require().NotNil(snap.Selection)
	s.Equal(0, snap.Selection.Slot)

	ids, err := app.SessionController.List(s.ctx)
	s.Require().NoError(err)
	s.Equal([]model.SessionID{"REDIS00001"}, ids)

	s.Require().NoError(app.SessionController.Delete(s.ctx, "REDIS00001"))
	s.False(mini.Exists("colorwood:session:REDIS00001"))
}

func TestNewRejectsUnknownStorage(t *testing.T) {
	_, err := New(Config{StorageType: "carrier-pigeon"})
	if err == nil {
		t.Fatal("expected error for unknown storage type")
	}
}

func TestNewRequiresRedisConfig(t *testing.T) {
	_, err := New(Config{StorageType: StorageTypeRedis})
	if err == nil {
		t.Fatal("expected error without RedisConfig")
	}
}
