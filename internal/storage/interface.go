package storage

import (
	"context"

	"github.com/mcoot/colorwood/internal/model"
)

// Storage holds hosted ad sessions for as long as they are played.
// Nothing here survives beyond one session's lifetime.
type Storage interface {
	SaveSession(ctx context.Context, sess *model.Session) error
	GetSession(ctx context.Context, id model.SessionID) (*model.Session, error)
	DeleteSession(ctx context.Context, id model.SessionID) error
	SessionExists(ctx context.Context, id model.SessionID) (bool, error)
	ListSessions(ctx context.Context) ([]model.SessionID, error)
}
