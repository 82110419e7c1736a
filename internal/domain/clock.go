package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock is the package-level time source for snapshot freshness and for
// locating "now" in tide and outlook series. Tests freeze it via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Now returns the current time from the package clock.
func Now() time.Time {
	return clock.Now()
}
