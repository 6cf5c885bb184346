package sse

import (
	"context"
	"log/slog"

	"github.com/mcoot/colorwood/internal/model"
)

// Broadcaster publishes session events to whoever is watching the session
type Broadcaster struct {
	hubManager *HubManager
	renderer   *Renderer
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		renderer:   NewRenderer(),
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// Publish sends each event to the session's viewers in order.
// Sessions nobody is watching are skipped.
func (b *Broadcaster) Publish(ctx context.Context, id model.SessionID, events []model.Event) {
	hub := b.hubManager.GetHub(id)
	if hub == nil {
		return
	}

	messages, err := b.renderer.RenderEvents(id, events)
	if err != nil {
		b.logger.ErrorContext(ctx, "sse failed to render events",
			slog.String("session_id", string(id)),
			slog.Any("error", err))
		return
	}
	for _, m := range messages {
		hub.BroadcastEvent(m.EventName, m.Data)
	}
}

// Close ends every stream watching a deleted session
func (b *Broadcaster) Close(id model.SessionID) {
	b.hubManager.RemoveHub(id)
}
