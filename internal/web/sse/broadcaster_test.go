package sse

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mcoot/colorwood/internal/model"
	"github.com/mcoot/colorwood/internal/testutil"
)

func TestWrapForOOBSwap(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		html     string
		expected string
	}{
		{
			name:     "simple content",
			id:       "board",
			html:     "<p>Hello</p>",
			expected: `<div id="board" hx-swap-oob="true"><p>Hello</p></div>`,
		},
		{
			name:     "empty content",
			id:       "status",
			html:     "",
			expected: `<div id="status" hx-swap-oob="true"></div>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := WrapForOOBSwap(tt.id, tt.html)
			if result != tt.expected {
				t.Errorf("WrapForOOBSwap(%q, %q)\ngot:  %q\nwant: %q",
					tt.id, tt.html, result, tt.expected)
			}
		})
	}
}

func TestRenderer_RenderEvents(t *testing.T) {
	r := NewRenderer()
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	out, err := r.RenderEvents("SESSION001", []model.Event{
		{Type: model.EventMoveCommitted, Timestamp: at, SessionID: "SESSION001",
			Payload: model.MovePayload{From: 0, To: 1, GroupSize: 2, Kind: "red"}},
		{Type: model.EventSlotCleared, Timestamp: at, SessionID: "SESSION001",
			Payload: model.SlotClearedPayload{Slot: 1, Kind: "red"}},
	})
	if err != nil {
		t.Fatalf("RenderEvents returned error: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("RenderEvents returned %d messages, want 3", len(out))
	}
	if out[0].EventName != "move_committed" || out[1].EventName != "slot_cleared" {
		t.Errorf("unexpected event names %q, %q", out[0].EventName, out[1].EventName)
	}
	if out[2].EventName != ChangedEvent || out[2].Data != "SESSION001" {
		t.Errorf("last message = %+v, want changed signal", out[2])
	}

	var decoded struct {
		Type    string `json:"type"`
		Payload struct {
			GroupSize int `json:"group_size"`
		} `json:"payload"`
	}
	if err := json.Unmarshal([]byte(out[0].Data), &decoded); err != nil {
		t.Fatalf("data is not JSON: %v", err)
	}
	if decoded.Type != "move_committed" || decoded.Payload.GroupSize != 2 {
		t.Errorf("decoded %+v", decoded)
	}
}

func TestRenderer_RenderEventsEmpty(t *testing.T) {
	out, err := NewRenderer().RenderEvents("SESSION001", nil)
	if err != nil || out != nil {
		t.Errorf("RenderEvents(nil) = %v, %v; want nothing", out, err)
	}
}

func TestBroadcaster_Publish(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	defer manager.Shutdown()
	broadcaster := NewBroadcaster(manager, testutil.NopLogger())

	hub := manager.GetOrCreateHub("SESSION001")
	client := NewClient(hub, "viewer1")
	hub.Register(client)
	waitForClients(t, hub, 1)

	broadcaster.Publish(context.Background(), "SESSION001", []model.Event{
		{Type: model.EventCTAReached, SessionID: "SESSION001",
			Payload: model.CTAReachedPayload{Reason: model.CTAReasonWin, StoreURL: "https://example.com"}},
	})

	first := receive(t, client)
	if !strings.HasPrefix(first, "event: cta_reached\n") {
		t.Errorf("first message = %q", first)
	}
	if !strings.Contains(first, `"store_url":"https://example.com"`) {
		t.Errorf("first message lacks the store URL: %q", first)
	}
	if second := receive(t, client); second != "event: changed\ndata: SESSION001\n\n" {
		t.Errorf("second message = %q", second)
	}
}

func TestBroadcaster_PublishWithoutViewers(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	broadcaster := NewBroadcaster(manager, testutil.NopLogger())

	broadcaster.Publish(context.Background(), "NOBODY", []model.Event{{Type: model.EventBoardReset}})

	if manager.HubCount() != 0 {
		t.Error("Publish created a hub for an unwatched session")
	}
}

func TestBroadcaster_Close(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	broadcaster := NewBroadcaster(manager, testutil.NopLogger())

	hub := manager.GetOrCreateHub("SESSION001")
	client := NewClient(hub, "viewer1")
	hub.Register(client)
	waitForClients(t, hub, 1)

	broadcaster.Close("SESSION001")

	if manager.GetHub("SESSION001") != nil {
		t.Error("hub still registered after Close")
	}
	select {
	case _, ok := <-client.send:
		if ok {
			t.Error("expected closed stream")
		}
	case <-time.After(time.Second):
		t.Fatal("stream was not closed")
	}
}
