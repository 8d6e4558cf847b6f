package engine

import "time"

// Clock abstracts time.Now() to allow deterministic testing.
// The CLI uses it to determine the reference instant of a query.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant. It backs the --now override.
type FixedClock struct {
	Instant time.Time
}

// Now returns the configured instant.
func (c FixedClock) Now() time.Time {
	return c.Instant
}
