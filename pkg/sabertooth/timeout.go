package sabertooth

import (
	"time"

	"github.com/benbjohnson/clock"
)

// Infinite is the duration of a Timeout which never expires.
// A zero duration never expires either.
const Infinite time.Duration = -1

// Timeout is a window starting at the last Reset.
type Timeout struct {
	clock    clock.Clock
	start    time.Time
	duration time.Duration
	expired  bool
}

// NewTimeout creates a Timeout which starts now.
func NewTimeout(c clock.Clock, d time.Duration) *Timeout {
	t := &Timeout{clock: c, duration: d}
	t.Reset()
	return t
}

// Duration returns the configured duration.
func (t *Timeout) Duration() time.Duration {
	return t.duration
}

// SetDuration changes the duration without restarting the window.
func (t *Timeout) SetDuration(d time.Duration) {
	t.duration = d
}

// CanExpire is false for an infinite or zero Timeout.
func (t *Timeout) CanExpire() bool {
	return t.duration > 0
}

// Expired checks if the window has elapsed or was forced to expire.
func (t *Timeout) Expired() bool {
	if !t.CanExpire() {
		return false
	}
	return t.expired || t.clock.Since(t.start) >= t.duration
}

// Expire forces the Timeout to be expired until the next Reset.
func (t *Timeout) Expire() {
	t.expired = true
}

// Reset restarts the window from now.
func (t *Timeout) Reset() {
	t.start, t.expired = t.clock.Now(), false
}
