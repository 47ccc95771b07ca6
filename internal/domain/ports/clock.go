package ports

import "time"

// Clock abstracts wall-clock reads so deck timestamps and session expiry are
// testable
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

// RealClock implements Clock using the standard time package
type RealClock struct{}

// NewRealClock creates a real clock implementation
func NewRealClock() Clock {
	return RealClock{}
}

// Now returns the current time
func (RealClock) Now() time.Time {
	return time.Now()
}

// Since returns the time elapsed since t
func (RealClock) Since(t time.Time) time.Duration {
	return time.Since(t)
}
