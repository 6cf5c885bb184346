package request

import (
	"time"

	"github.com/mcoot/colorwood/internal/model"
)

// CreateSessionRequest is the request body for dealing a new session.
// Unset fields fall back to the server's base configuration.
type CreateSessionRequest struct {
	ViewportWidth float64  `json:"viewport_width"`
	FreePlay      *bool    `json:"free_play,omitempty"`
	SlotCount     int      `json:"slot_count,omitempty"`
	Capacity      int      `json:"capacity,omitempty"`
	Kinds         []string `json:"kinds,omitempty"`
	PiecesPerKind int      `json:"pieces_per_kind,omitempty"`

	IntroSeconds    *float64 `json:"intro_seconds,omitempty"`
	GameplaySeconds *float64 `json:"gameplay_seconds,omitempty"`
	CTASeconds      *float64 `json:"cta_seconds,omitempty"`

	StoreURL string `json:"store_url,omitempty"`
}

// Apply overlays the request onto a base configuration
func (r CreateSessionRequest) Apply(base model.GameConfig) model.GameConfig {
	cfg := base
	if r.SlotCount != 0 {
		cfg.SlotCount = r.SlotCount
	}
	if r.Capacity != 0 {
		cfg.Capacity = r.Capacity
	}
	if len(r.Kinds) > 0 {
		cfg.Kinds = make([]model.Kind, len(r.Kinds))
		for i, k := range r.Kinds {
			cfg.Kinds[i] = model.Kind(k)
		}
	}
	if r.PiecesPerKind != 0 {
		cfg.PiecesPerKind = r.PiecesPerKind
	}
	if r.StoreURL != "" {
		cfg.StoreURL = r.StoreURL
	}

	if r.FreePlay != nil {
		if *r.FreePlay {
			cfg.Timeline = nil
		} else if cfg.Timeline == nil {
			tl := model.DefaultTimelineConfig()
			cfg.Timeline = &tl
		}
	}
	if cfg.Timeline != nil {
		tl := *cfg.Timeline
		if r.IntroSeconds != nil {
			tl.Intro = seconds(*r.IntroSeconds)
		}
		if r.GameplaySeconds != nil {
			tl.Gameplay = seconds(*r.GameplaySeconds)
		}
		if r.CTASeconds != nil {
			tl.CTA = seconds(*r.CTASeconds)
		}
		cfg.Timeline = &tl
	}
	return cfg
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// PointerRequest is the request body for one pointer operation
type PointerRequest struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// ViewportRequest is the request body for resizing a session's viewport
type ViewportRequest struct {
	Width float64 `json:"width"`
}
