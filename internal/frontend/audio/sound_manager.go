package audio

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/mcoot/colorwood/internal/model"
)

const sampleRate = beep.SampleRate(44100)

// Cue is a sound effect
type Cue int

const (
	CuePickup Cue = iota
	CueReject
	CueCleared
	CueWin
	CueTimeout
)

// Config controls audio output
type Config struct {
	Enabled bool
	Volume  float64 // 0 to 1
}

// DefaultConfig returns audio on at a moderate volume
func DefaultConfig() Config {
	return Config{Enabled: true, Volume: 0.5}
}

// ConfigFromEnv overrides base with COLORWOOD_SOUND and COLORWOOD_VOLUME
func ConfigFromEnv(base Config) (Config, error) {
	cfg := base
	if v := os.Getenv("COLORWOOD_SOUND"); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return base, fmt.Errorf("invalid COLORWOOD_SOUND %q", v)
		}
		cfg.Enabled = on
	}
	if v := os.Getenv("COLORWOOD_VOLUME"); v != "" {
		vol, err := strconv.ParseFloat(v, 64)
		if err != nil || vol < 0 || vol > 1 {
			return base, fmt.Errorf("invalid COLORWOOD_VOLUME %q", v)
		}
		cfg.Volume = vol
	}
	return cfg, nil
}

// CueFor picks the sound for an event, if it has one
func CueFor(e model.Event) (Cue, bool) {
	switch e.Type {
	case model.EventSelectionStarted:
		return CuePickup, true
	case model.EventMoveRejected:
		return CueReject, true
	case model.EventSlotCleared:
		return CueCleared, true
	case model.EventGameWon:
		return CueWin, true
	case model.EventCTAReached:
		if p, ok := e.Payload.(model.CTAReachedPayload); ok && p.Reason == model.CTAReasonTimer {
			return CueTimeout, true
		}
	}
	return 0, false
}

// Streamer synthesises a cue at the given sample rate
func Streamer(c Cue, rate beep.SampleRate) beep.Streamer {
	switch c {
	case CuePickup:
		return note(660, 40*time.Millisecond, WaveTriangle, rate)
	case CueReject:
		return volume(note(110, 150*time.Millisecond, WaveSquare, rate), 0.4)
	case CueCleared:
		return beep.Seq(
			note(523.25, 90*time.Millisecond, WaveSine, rate),
			note(783.99, 160*time.Millisecond, WaveSine, rate),
		)
	case CueWin:
		return beep.Seq(
			note(523.25, 100*time.Millisecond, WaveTriangle, rate),
			note(659.25, 100*time.Millisecond, WaveTriangle, rate),
			note(783.99, 100*time.Millisecond, WaveTriangle, rate),
			note(1046.5, 300*time.Millisecond, WaveTriangle, rate),
		)
	case CueTimeout:
		return beep.Seq(
			note(392, 150*time.Millisecond, WaveSine, rate),
			note(261.63, 350*time.Millisecond, WaveSine, rate),
		)
	}
	return beep.Silence(0)
}

// SoundManager mixes cues onto the speaker. Until Initialize succeeds every
// Play is a no-op, so the game runs silently where there is no audio device.
type SoundManager struct {
	mu          sync.Mutex
	cfg         Config
	mixer       *beep.Mixer
	initialized bool
	logger      *slog.Logger
}

// NewSoundManager creates a sound manager
func NewSoundManager(cfg Config, logger *slog.Logger) *SoundManager {
	return &SoundManager{
		cfg:    cfg,
		mixer:  &beep.Mixer{},
		logger: logger.With(slog.String("component", "audio")),
	}
}

// Initialize opens the audio device
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized || !sm.cfg.Enabled {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Play queues a cue
func (sm *SoundManager) Play(c Cue) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	s := volume(Streamer(c, sampleRate), sm.cfg.Volume)
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}

// PlayEvents plays the cue of each event that has one
func (sm *SoundManager) PlayEvents(events []model.Event) {
	for _, e := range events {
		if c, ok := CueFor(e); ok {
			sm.logger.Debug("cue", slog.String("event", string(e.Type)))
			sm.Play(c)
		}
	}
}

// Cleanup silences everything and closes the device
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	sm.initialized = false
}
