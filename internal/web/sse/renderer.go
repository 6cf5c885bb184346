package sse

import (
	"encoding/json"
	"fmt"

	"github.com/mcoot/colorwood/internal/model"
)

// ChangedEvent is sent after every batch so page fragments know to refetch
const ChangedEvent = "changed"

// EventData is one framed SSE message before formatting
type EventData struct {
	EventName string
	Data      string
}

// Renderer converts session events to SSE messages
type Renderer struct{}

// NewRenderer creates a new Renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderEvents encodes a batch of events, named by their type, followed by a
// changed signal carrying the session ID. An empty batch renders nothing.
func (r *Renderer) RenderEvents(id model.SessionID, events []model.Event) ([]EventData, error) {
	if len(events) == 0 {
		return nil, nil
	}
	out := make([]EventData, 0, len(events)+1)
	for _, e := range events {
		data, err := json.Marshal(e)
		if err != nil {
			return nil, fmt.Errorf("encoding %s event: %w", e.Type, err)
		}
		out = append(out, EventData{EventName: string(e.Type), Data: string(data)})
	}
	out = append(out, EventData{EventName: ChangedEvent, Data: string(id)})
	return out, nil
}

// WrapForOOBSwap wraps HTML in a div with hx-swap-oob for out-of-band swaps
func WrapForOOBSwap(id, html string) string {
	return `<div id="` + id + `" hx-swap-oob="true">` + html + `</div>`
}
