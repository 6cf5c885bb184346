package model

import "time"

// HitTolerance widens every piece's drawn rectangle for hit testing.
// Values are in design pixels and scale with the layout.
type HitTolerance struct {
	Horizontal float64 `json:"horizontal"`
	Vertical   float64 `json:"vertical"`
}

// MagnetConfig controls the presentational snap of a dragged group
type MagnetConfig struct {
	Threshold float64 `json:"threshold"` // Design pixels
	Speed     float64 `json:"speed"`     // Fraction of the gap closed per update (0-1)
}

// TimelineConfig holds the ad lifecycle durations
type TimelineConfig struct {
	Intro    time.Duration `json:"intro"`
	Gameplay time.Duration `json:"gameplay"`
	CTA      time.Duration `json:"cta"`
}

// DefaultTimelineConfig returns the reference ad timings
func DefaultTimelineConfig() TimelineConfig {
	return TimelineConfig{
		Intro:    10 * time.Second,
		Gameplay: 15 * time.Second,
		CTA:      5 * time.Second,
	}
}

// GameConfig is the configuration surface supplied at construction
type GameConfig struct {
	SlotCount     int          `json:"slot_count"`
	Capacity      int          `json:"capacity"`
	Kinds         []Kind       `json:"kinds"`
	PiecesPerKind int          `json:"pieces_per_kind"`
	Tolerance     HitTolerance `json:"tolerance"`
	Magnet        MagnetConfig `json:"magnet"`

	// Timeline is nil for free play: the phase stays gameplay forever
	Timeline *TimelineConfig `json:"timeline,omitempty"`

	// StoreURL is the click-through target shown once the CTA is reached
	StoreURL string `json:"store_url,omitempty"`
}

// DefaultGameConfig returns the reference timed ad configuration
func DefaultGameConfig() GameConfig {
	tl := DefaultTimelineConfig()
	return GameConfig{
		SlotCount:     7,
		Capacity:      16,
		Kinds:         DefaultKinds(),
		PiecesPerKind: 16,
		Tolerance:     HitTolerance{Horizontal: 5, Vertical: 15},
		Magnet:        MagnetConfig{Threshold: 50, Speed: 0.2},
		Timeline:      &tl,
		StoreURL:      "https://play.google.com/store/apps/details?id=games.burny.color.sort.woody.puzzle&hl=en-US",
	}
}

// DefaultFreePlayConfig returns the reference configuration without a timeline
func DefaultFreePlayConfig() GameConfig {
	cfg := DefaultGameConfig()
	cfg.Timeline = nil
	return cfg
}

// TotalPieces returns the size of the piece multiset
func (c GameConfig) TotalPieces() int {
	return len(c.Kinds) * c.PiecesPerKind
}

// Validate checks that the configuration describes a playable board
func (c GameConfig) Validate() error {
	if c.SlotCount < 2 {
		return NewConfigError("slot_count", "need at least 2 slots, got %d", c.SlotCount)
	}
	if c.Capacity < 1 {
		return NewConfigError("capacity", "must be positive, got %d", c.Capacity)
	}
	if len(c.Kinds) == 0 {
		return NewConfigError("kinds", "at least one kind is required")
	}
	seen := make(map[Kind]bool, len(c.Kinds))
	for _, k := range c.Kinds {
		if k == "" {
			return NewConfigError("kinds", "kind names must not be empty")
		}
		if seen[k] {
			return NewConfigError("kinds", "duplicate kind %q", k)
		}
		seen[k] = true
	}
	if c.PiecesPerKind < 1 {
		return NewConfigError("pieces_per_kind", "must be positive, got %d", c.PiecesPerKind)
	}
	if total, room := c.TotalPieces(), c.SlotCount*c.Capacity; total > room {
		return NewConfigError("pieces_per_kind", "%d pieces do not fit in %d slots of %d", total, c.SlotCount, c.Capacity)
	}
	if c.Tolerance.Horizontal < 0 || c.Tolerance.Vertical < 0 {
		return NewConfigError("tolerance", "margins must not be negative")
	}
	if c.Magnet.Threshold < 0 || c.Magnet.Speed < 0 || c.Magnet.Speed > 1 {
		return NewConfigError("magnet", "threshold must be >= 0 and speed within [0, 1]")
	}
	if tl := c.Timeline; tl != nil {
		if tl.Intro < 0 || tl.Gameplay < 0 || tl.CTA < 0 {
			return NewConfigError("timeline", "durations must not be negative")
		}
	}
	return nil
}
