package model

import "time"

// SessionID uniquely identifies a hosted ad session
type SessionID string

// Session is one hosted playthrough: configuration, rule state and geometry
type Session struct {
	ID            SessionID  `json:"id"`
	Config        GameConfig `json:"config"`
	State         *GameState `json:"state"`
	Layout        Layout     `json:"layout"`
	ViewportWidth float64    `json:"viewport_width"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
