package clock

import "time"

// Clock supplies the monotonic reading the timeline compares thresholds against
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system clock
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current time (carries Go's monotonic reading)
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// FrameClock derives time from a frame counter, for fixed-rate driver loops
// where wall-clock jitter should not leak into phase transitions
type FrameClock struct {
	epoch    time.Time
	frames   int64
	frameDur time.Duration
}

// NewFrameClock creates a FrameClock running at tps frames per second
func NewFrameClock(epoch time.Time, tps int) *FrameClock {
	if tps <= 0 {
		tps = 60
	}
	return &FrameClock{
		epoch:    epoch,
		frameDur: time.Second / time.Duration(tps),
	}
}

// Advance moves the clock forward by one frame
func (c *FrameClock) Advance() {
	c.frames++
}

// Now returns the epoch plus the elapsed frames
func (c *FrameClock) Now() time.Time {
	return c.epoch.Add(time.Duration(c.frames) * c.frameDur)
}
