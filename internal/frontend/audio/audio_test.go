package audio

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/colorwood/internal/model"
)

const testRate = beep.SampleRate(8000)

// drain reads a streamer to the end and returns every sample
func drain(t *testing.T, s beep.Streamer) [][2]float64 {
	t.Helper()
	var out [][2]float64
	buf := make([][2]float64, 256)
	for range 1000 {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
	}
	t.Fatal("streamer did not finish")
	return nil
}

func TestOscillator(t *testing.T) {
	for _, wave := range []WaveType{WaveSine, WaveSquare, WaveTriangle} {
		osc := NewOscillator(440, 50*time.Millisecond, wave, testRate)
		samples := drain(t, osc)

		assert.Len(t, samples, testRate.N(50*time.Millisecond))
		for _, s := range samples {
			assert.GreaterOrEqual(t, s[0], -1.0)
			assert.LessOrEqual(t, s[0], 1.0)
			assert.Equal(t, s[0], s[1])
		}
		assert.NoError(t, osc.Err())
	}
}

func TestEnvelope_Ramps(t *testing.T) {
	d := 100 * time.Millisecond
	env := NewEnvelope(NewOscillator(0, d, WaveSquare, testRate), d, 10*time.Millisecond, 10*time.Millisecond, testRate)
	samples := drain(t, env)

	require.Len(t, samples, testRate.N(d))
	assert.InDelta(t, 0, samples[0][0], 1e-9)
	assert.InDelta(t, 1, samples[len(samples)/2][0], 1e-9)
	assert.Less(t, samples[len(samples)-1][0], 0.05)
}

func TestStreamer_EveryCueFinishes(t *testing.T) {
	for _, c := range []Cue{CuePickup, CueReject, CueCleared, CueWin, CueTimeout} {
		samples := drain(t, Streamer(c, testRate))
		assert.NotEmpty(t, samples, "cue %d", c)
	}
}

func TestCueFor(t *testing.T) {
	tests := []struct {
		name  string
		event model.Event
		cue   Cue
		ok    bool
	}{
		{"pickup", model.Event{Type: model.EventSelectionStarted}, CuePickup, true},
		{"reject", model.Event{Type: model.EventMoveRejected}, CueReject, true},
		{"cleared", model.Event{Type: model.EventSlotCleared}, CueCleared, true},
		{"won", model.Event{Type: model.EventGameWon}, CueWin, true},
		{"timeout", model.Event{Type: model.EventCTAReached, Payload: model.CTAReachedPayload{Reason: model.CTAReasonTimer}}, CueTimeout, true},
		{"cta after win", model.Event{Type: model.EventCTAReached, Payload: model.CTAReachedPayload{Reason: model.CTAReasonWin}}, 0, false},
		{"committed", model.Event{Type: model.EventMoveCommitted}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cue, ok := CueFor(tt.event)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.cue, cue)
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("COLORWOOD_SOUND", "false")
	t.Setenv("COLORWOOD_VOLUME", "0.25")

	cfg, err := ConfigFromEnv(DefaultConfig())
	require.NoError(t, err)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 0.25, cfg.Volume)

	t.Setenv("COLORWOOD_VOLUME", "2")
	_, err = ConfigFromEnv(DefaultConfig())
	assert.Error(t, err)
}

func TestSoundManager_SilentUntilInitialized(t *testing.T) {
	sm := NewSoundManager(Config{Enabled: false}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, sm.Initialize())
	assert.NotPanics(t, func() {
		sm.PlayEvents([]model.Event{{Type: model.EventSlotCleared}})
		sm.Cleanup()
	})
	assert.Equal(t, 0, sm.mixer.Len())
}
