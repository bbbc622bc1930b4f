package adapters

import "time"

// Clock supplies the current time. Injected so dwell-time and session
// duration arithmetic can be tested without sleeping.
type Clock interface {
	Now() time.Time
}

// SystemClock is the default Clock reading the wall clock.
type SystemClock struct{}

var _ Clock = SystemClock{}

// NewSystemClock creates a new SystemClock.
func NewSystemClock() Clock {
	return SystemClock{}
}

func (SystemClock) Now() time.Time { return time.Now() }
