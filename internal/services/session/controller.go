package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mcoot/colorwood/internal/dependencies/clock"
	"github.com/mcoot/colorwood/internal/dependencies/random"
	"github.com/mcoot/colorwood/internal/model"
	"github.com/mcoot/colorwood/internal/services/game"
	"github.com/mcoot/colorwood/internal/services/moves"
	"github.com/mcoot/colorwood/internal/services/snapshot"
	"github.com/mcoot/colorwood/internal/storage"
)

// SessionIDLength is the length of generated session IDs
const SessionIDLength = 10

// Publisher receives the events produced by each session operation, in order
type Publisher interface {
	Publish(ctx context.Context, id model.SessionID, events []model.Event)
	Close(id model.SessionID)
}

// PointerResult is the outcome of one pointer operation
type PointerResult struct {
	Snapshot model.Snapshot
	Accepted bool              // Down picked up a group, or Up committed a move
	Move     *moves.MoveResult // Set for Up
}

// Controller hosts games behind storage so they can be played over HTTP.
// Operations on one session are serialised.
type Controller struct {
	storage        storage.Storage
	gameController *game.Controller
	snapshots      *snapshot.Service
	publisher      Publisher
	clock          clock.Clock
	random         random.Random
	logger         *slog.Logger

	mu    sync.Mutex
	locks map[model.SessionID]*sync.Mutex
}

// NewController creates a new SessionController. publisher may be nil.
func NewController(
	storage storage.Storage,
	gameController *game.Controller,
	snapshots *snapshot.Service,
	publisher Publisher,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:        storage,
		gameController: gameController,
		snapshots:      snapshots,
		publisher:      publisher,
		clock:          clock,
		random:         random,
		logger:         logger.With(slog.String("component", "session")),
		locks:          make(map[model.SessionID]*sync.Mutex),
	}
}

// Create deals a new game and stores it under a fresh ID
func (c *Controller) Create(ctx context.Context, cfg model.GameConfig, viewportWidth float64) (model.Snapshot, error) {
	var id model.SessionID
	for {
		id = model.SessionID(c.random.String(SessionIDLength, random.IDAlphabet))
		exists, err := c.storage.SessionExists(ctx, id)
		if err != nil {
			return model.Snapshot{}, err
		}
		if !exists {
			break
		}
	}

	sess, err := c.gameController.NewGame(cfg, viewportWidth)
	if err != nil {
		return model.Snapshot{}, err
	}
	sess.ID = id

	if err := c.storage.SaveSession(ctx, sess); err != nil {
		c.logger.Error("failed to save session",
			slog.String("session_id", string(id)),
			slog.String("error", err.Error()),
		)
		return model.Snapshot{}, err
	}

	c.logger.Info("session created",
		slog.String("session_id", string(id)),
		slog.Bool("timed", cfg.Timeline != nil),
		slog.Float64("viewport_width", viewportWidth),
	)
	return c.snapshots.Build(sess)
}

// Get ticks the session to now and returns its snapshot
func (c *Controller) Get(ctx context.Context, id model.SessionID) (model.Snapshot, error) {
	return c.update(ctx, id, func(sess *model.Session) error {
		c.gameController.Tick(sess)
		return nil
	})
}

// Pointer applies one pointer operation at board-local (x, y)
func (c *Controller) Pointer(ctx context.Context, id model.SessionID, op model.PointerOp, x, y float64) (PointerResult, error) {
	var result PointerResult
	snap, err := c.update(ctx, id, func(sess *model.Session) error {
		switch op {
		case model.PointerDown:
			result.Accepted = c.gameController.PointerDown(sess, x, y)
		case model.PointerMove:
			c.gameController.PointerMove(sess, x, y)
		case model.PointerUp:
			move, ok := c.gameController.PointerUp(sess, x, y)
			result.Move = &move
			result.Accepted = ok
		case model.PointerLeave:
			c.gameController.PointerLeave(sess)
		default:
			return model.ErrInvalidPointerOp
		}
		return nil
	})
	result.Snapshot = snap
	return result, err
}

// DismissIntro skips the intro overlay
func (c *Controller) DismissIntro(ctx context.Context, id model.SessionID) (model.Snapshot, error) {
	return c.update(ctx, id, func(sess *model.Session) error {
		c.gameController.DismissIntro(sess)
		return nil
	})
}

// Reset deals a new board for the session
func (c *Controller) Reset(ctx context.Context, id model.SessionID) (model.Snapshot, error) {
	return c.update(ctx, id, c.gameController.Reset)
}

// Resize relays the board out for a new viewport width
func (c *Controller) Resize(ctx context.Context, id model.SessionID, viewportWidth float64) (model.Snapshot, error) {
	return c.update(ctx, id, func(sess *model.Session) error {
		return c.gameController.Relayout(sess, viewportWidth)
	})
}

// Delete ends a session
func (c *Controller) Delete(ctx context.Context, id model.SessionID) error {
	lock := c.lock(id)
	lock.Lock()
	defer lock.Unlock()

	if _, err := c.storage.GetSession(ctx, id); err != nil {
		return err
	}
	if err := c.storage.DeleteSession(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	delete(c.locks, id)
	c.mu.Unlock()

	if c.publisher != nil {
		c.publisher.Close(id)
	}
	c.logger.Info("session deleted", slog.String("session_id", string(id)))
	return nil
}

// List returns the IDs of all live sessions
func (c *Controller) List(ctx context.Context) ([]model.SessionID, error) {
	return c.storage.ListSessions(ctx)
}

// update runs fn against the stored session, saves it and publishes the
// events it produced. The state is saved even when fn fails because the
// clock tick inside it may already have advanced the timeline.
func (c *Controller) update(ctx context.Context, id model.SessionID, fn func(*model.Session) error) (model.Snapshot, error) {
	lock := c.lock(id)
	lock.Lock()
	defer lock.Unlock()

	sess, err := c.storage.GetSession(ctx, id)
	if err != nil {
		return model.Snapshot{}, err
	}

	opErr := fn(sess)

	events := sess.State.DrainEvents()
	for i := range events {
		events[i].SessionID = id
		if p, ok := events[i].Payload.(model.CTAReachedPayload); ok {
			p.StoreURL = sess.Config.StoreURL
			events[i].Payload = p
		}
	}
	sess.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveSession(ctx, sess); err != nil {
		c.logger.Error("failed to save session",
			slog.String("session_id", string(id)),
			slog.String("error", err.Error()),
		)
		return model.Snapshot{}, err
	}

	if c.publisher != nil && len(events) > 0 {
		c.publisher.Publish(ctx, id, events)
	}
	for _, e := range events {
		if e.Type == model.EventCTAReached {
			c.logger.Info("session reached cta", slog.String("session_id", string(id)))
		}
	}

	snap, err := c.snapshots.Build(sess)
	if err != nil {
		return model.Snapshot{}, err
	}
	if opErr != nil {
		c.logger.Debug("session operation failed",
			slog.String("session_id", string(id)),
			slog.String("error", opErr.Error()),
		)
	}
	return snap, opErr
}

func (c *Controller) lock(id model.SessionID) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locks[id]
	if !ok {
		l = &sync.Mutex{}
		c.locks[id] = l
	}
	return l
}
