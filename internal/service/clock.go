package service

import "time"

// Clock abstracts time.Now() to allow deterministic testing.
// SettlementService uses it to date recorded settlements and to decide
// which month bucket a recording falls into.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}
