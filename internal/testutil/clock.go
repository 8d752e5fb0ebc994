package testutil

import (
	"sync"
	"time"
)

// Clock is a settable clock for code that takes a `func() time.Time`.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// NowAt is a clock stuck at t.
func NowAt(t time.Time) func() time.Time {
	return NewClock(t).Now
}

// MustParseRFC3339 panics on malformed input; test fixtures only.
func MustParseRFC3339(v string) time.Time {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		panic(err)
	}
	return t
}
