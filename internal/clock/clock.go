// Package clock holds the simulation epoch.
package clock

import (
	"math"
	"time"
)

// Rate limits for the playback multiplier.
const (
	MinRate = -1e7
	MaxRate = 1e7
)

// EpochClock holds the current simulation epoch in seconds since
// 1970-01-01T00:00:00Z. It only moves when told to; consumers read it
// each frame.
type EpochClock struct {
	epoch  float64
	rate   float64
	paused bool
}

// New returns a clock at the given epoch running at real-time rate.
func New(epoch float64) *EpochClock {
	return &EpochClock{epoch: epoch, rate: 1}
}

// NewAt returns a clock at the given instant.
func NewAt(t time.Time) *EpochClock {
	return New(FromTime(t))
}

// Epoch returns the current epoch.
func (c *EpochClock) Epoch() float64 {
	return c.epoch
}

// Time returns the current epoch as a UTC time.
func (c *EpochClock) Time() time.Time {
	return ToTime(c.epoch)
}

// Advance adds a signed delta in seconds. Negative deltas rewind. There is
// no bound and no error.
func (c *EpochClock) Advance(delta float64) {
	c.epoch += delta
}

// Set jumps to an absolute epoch.
func (c *EpochClock) Set(epoch float64) {
	c.epoch = epoch
}

// Rate returns the playback multiplier applied by Tick.
func (c *EpochClock) Rate() float64 {
	return c.rate
}

// SetRate sets the playback multiplier, clamped to [MinRate, MaxRate].
// Non-finite values are ignored.
func (c *EpochClock) SetRate(rate float64) {
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return
	}
	c.rate = math.Max(MinRate, math.Min(MaxRate, rate))
}

// Paused reports whether Tick is suspended.
func (c *EpochClock) Paused() bool {
	return c.paused
}

// SetPaused suspends or resumes Tick.
func (c *EpochClock) SetPaused(p bool) {
	c.paused = p
}

// Tick converts elapsed wall time into a simulation delta at the current
// rate and advances by it. It returns the delta applied.
func (c *EpochClock) Tick(elapsed time.Duration) float64 {
	if c.paused {
		return 0
	}
	delta := elapsed.Seconds() * c.rate
	c.Advance(delta)
	return delta
}

// FromTime converts a time to an epoch with sub-second precision.
func FromTime(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/1e9
}

// ToTime converts an epoch to a UTC time. Epochs beyond the range of
// time.Time saturate.
func ToTime(epoch float64) time.Time {
	const limit = 1 << 62 / int64(time.Second)
	switch {
	case math.IsNaN(epoch):
		return time.Unix(0, 0).UTC()
	case epoch > float64(limit):
		return time.Unix(limit, 0).UTC()
	case epoch < -float64(limit):
		return time.Unix(-limit, 0).UTC()
	}
	sec := math.Floor(epoch)
	nsec := math.Round((epoch - sec) * 1e9)
	return time.Unix(int64(sec), int64(nsec)).UTC()
}
