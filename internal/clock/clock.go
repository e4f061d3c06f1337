package clock

import "time"

// Clock provides time-related functions that can be mocked for testing.
// Sleep is part of the interface so that retry waits are observable in
// tests without actually waiting.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// RealClock implements Clock using actual system time
type RealClock struct{}

// Now returns the current system time
func (RealClock) Now() time.Time {
	return time.Now()
}

// Sleep pauses the calling goroutine for the given duration
func (RealClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
