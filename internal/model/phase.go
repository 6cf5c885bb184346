package model

import "time"

// Phase is one step of the ad lifecycle
type Phase string

const (
	PhaseIntro    Phase = "intro"    // Intro overlay shown, input ignored
	PhaseGameplay Phase = "gameplay" // Board is interactive
	PhaseCTA      Phase = "cta"      // Call to action shown, terminal
)

// rank orders phases so transitions can be checked for monotonicity
func (p Phase) rank() int {
	switch p {
	case PhaseIntro:
		return 0
	case PhaseGameplay:
		return 1
	case PhaseCTA:
		return 2
	default:
		return -1
	}
}

// Before returns true if p comes strictly earlier in the lifecycle than other
func (p Phase) Before(other Phase) bool {
	return p.rank() < other.rank()
}

// CTAReason records which path entered the cta phase
type CTAReason string

const (
	CTAReasonTimer CTAReason = "timer"
	CTAReasonWin   CTAReason = "win"
)

// Timeline is the phase state machine data
type Timeline struct {
	Enabled bool  `json:"enabled"`
	Phase   Phase `json:"phase"`

	// Epoch is the first tick; thresholds are measured from it
	Started   bool      `json:"started"`
	StartedAt time.Time `json:"started_at"`

	Intro    time.Duration `json:"intro"`
	Gameplay time.Duration `json:"gameplay"`
	CTA      time.Duration `json:"cta"`

	HasInteracted bool      `json:"has_interacted"`
	CTAReached    bool      `json:"cta_reached"`
	CTAReason     CTAReason `json:"cta_reason,omitempty"`
	CTAAt         time.Time `json:"cta_at"`
}

// NewTimeline creates a timeline from optional durations.
// A nil config produces a disabled timeline fixed in gameplay.
func NewTimeline(cfg *TimelineConfig) Timeline {
	if cfg == nil {
		return Timeline{Enabled: false, Phase: PhaseGameplay}
	}
	return Timeline{
		Enabled:  true,
		Phase:    PhaseIntro,
		Intro:    cfg.Intro,
		Gameplay: cfg.Gameplay,
		CTA:      cfg.CTA,
	}
}

// Elapsed returns the time since the first tick, or 0 before it
func (t *Timeline) Elapsed(now time.Time) time.Duration {
	if !t.Started {
		return 0
	}
	d := now.Sub(t.StartedAt)
	if d < 0 {
		return 0
	}
	return d
}

// GameplayEnd is the elapsed time at which the timer forces the cta
func (t *Timeline) GameplayEnd() time.Duration {
	return t.Intro + t.Gameplay
}

// IsTerminal returns true once the cta phase has been entered
func (t *Timeline) IsTerminal() bool {
	return t.Phase == PhaseCTA
}
