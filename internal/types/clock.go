package types

import "time"

// Clock abstracts time for testability. Every component that reads "now"
// resolves it through this single seam so tests can supply fixed instants.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the real system time (always UTC).
type RealClock struct{}

// Now returns the current time in UTC.
func (RealClock) Now() time.Time { return time.Now().UTC() }
