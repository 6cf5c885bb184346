package timeline

import (
	"log/slog"
	"time"

	"github.com/mcoot/colorwood/internal/model"
)

// Service drives the intro -> gameplay -> cta state machine.
// Thresholds are compared against the clock reading supplied with each call;
// nothing is scheduled internally.
type Service struct {
	logger *slog.Logger
}

// New creates a new TimelineService
func New(logger *slog.Logger) *Service {
	return &Service{
		logger: logger.With(slog.String("component", "timeline")),
	}
}

// Start records the epoch on the first tick. Returns true if this call started it.
func (s *Service) Start(tl *model.Timeline, now time.Time) bool {
	if !tl.Enabled || tl.Started {
		return false
	}
	tl.Started = true
	tl.StartedAt = now
	return true
}

// Tick advances the phase for the elapsed time and returns the transitions made.
// A timeline already in cta is left untouched.
func (s *Service) Tick(tl *model.Timeline, now time.Time) []model.Event {
	if !tl.Enabled {
		return nil
	}
	s.Start(tl, now)
	if tl.IsTerminal() {
		return nil
	}

	var events []model.Event
	elapsed := tl.Elapsed(now)

	if tl.Phase == model.PhaseIntro && elapsed >= tl.Intro {
		events = append(events, s.transition(tl, model.PhaseGameplay, now)...)
	}
	if tl.Phase == model.PhaseGameplay && elapsed >= tl.GameplayEnd() {
		events = append(events, s.enterCTA(tl, model.CTAReasonTimer, now)...)
	}
	return events
}

// DismissIntro handles the player dismissing the intro overlay.
// It moves intro to gameplay and marks the player as having interacted.
func (s *Service) DismissIntro(tl *model.Timeline, now time.Time) []model.Event {
	if !tl.Enabled || tl.Phase != model.PhaseIntro {
		return nil
	}
	s.Start(tl, now)
	tl.HasInteracted = true
	return s.transition(tl, model.PhaseGameplay, now)
}

// ForceCTA enters cta regardless of phase or elapsed time.
// The cta_reached event is produced only by the first entry.
func (s *Service) ForceCTA(tl *model.Timeline, reason model.CTAReason, now time.Time) []model.Event {
	if !tl.Enabled || tl.IsTerminal() {
		return nil
	}
	s.Start(tl, now)
	return s.enterCTA(tl, reason, now)
}

// MarkInteracted records the player's first successful pickup
func (s *Service) MarkInteracted(tl *model.Timeline) {
	tl.HasInteracted = true
}

// AcceptsInput returns true while board gestures are allowed
func (s *Service) AcceptsInput(tl *model.Timeline) bool {
	return tl.Phase == model.PhaseGameplay
}

// Expired returns true once gameplay has run its full length, whether or not
// a tick has moved the phase on yet
func (s *Service) Expired(tl *model.Timeline, now time.Time) bool {
	if !tl.Enabled || !tl.Started || tl.IsTerminal() {
		return false
	}
	return tl.Elapsed(now) >= tl.GameplayEnd()
}

// Remaining returns the whole seconds of gameplay left, rounded up and floored at 0.
// A disabled timeline reports 0.
func (s *Service) Remaining(tl *model.Timeline, now time.Time) int {
	if !tl.Enabled || tl.IsTerminal() {
		return 0
	}
	left := tl.GameplayEnd() - tl.Elapsed(now)
	if left <= 0 {
		return 0
	}
	return int((left + time.Second - 1) / time.Second)
}

// CTAElapsed returns how long the cta has been shown, capped at the cta duration
func (s *Service) CTAElapsed(tl *model.Timeline, now time.Time) time.Duration {
	if !tl.CTAReached {
		return 0
	}
	d := now.Sub(tl.CTAAt)
	if d < 0 {
		return 0
	}
	if tl.CTA > 0 && d > tl.CTA {
		return tl.CTA
	}
	return d
}

func (s *Service) enterCTA(tl *model.Timeline, reason model.CTAReason, now time.Time) []model.Event {
	events := s.transition(tl, model.PhaseCTA, now)
	tl.CTAReached = true
	tl.CTAReason = reason
	tl.CTAAt = now

	s.logger.Info("cta reached",
		slog.String("reason", string(reason)),
		slog.Duration("elapsed", tl.Elapsed(now)),
		slog.Bool("has_interacted", tl.HasInteracted),
	)

	return append(events, model.Event{
		Type:      model.EventCTAReached,
		Timestamp: now,
		Payload:   model.CTAReachedPayload{Reason: reason},
	})
}

func (s *Service) transition(tl *model.Timeline, to model.Phase, now time.Time) []model.Event {
	from := tl.Phase
	if !from.Before(to) {
		return nil
	}
	tl.Phase = to
	s.logger.Debug("phase changed",
		slog.String("from", string(from)),
		slog.String("to", string(to)),
	)
	return []model.Event{{
		Type:      model.EventPhaseChanged,
		Timestamp: now,
		Payload:   model.PhaseChangedPayload{From: from, To: to},
	}}
}
