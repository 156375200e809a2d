package testfixtures

import (
	"sync/atomic"
	"time"
)

// Clock is a manually driven time source. It is safe for concurrent use, so
// a session janitor and a dialog engine can share one in a test.
type Clock struct {
	nanos atomic.Int64
}

// NewClock returns a clock set to start, or to ReferenceTime when start is zero.
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	c := &Clock{}
	c.Set(start)
	return c
}

// Now returns the clock time in UTC.
func (c *Clock) Now() time.Time {
	return time.Unix(0, c.nanos.Load()).UTC()
}

// NowFunc exposes Now for injection; a nil clock yields time.Now.
func (c *Clock) NowFunc() func() time.Time {
	if c == nil {
		return time.Now
	}
	return c.Now
}

// Today is the calendar date of Now, at midnight UTC.
func (c *Clock) Today() time.Time {
	y, m, d := c.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Set moves the clock to t.
func (c *Clock) Set(t time.Time) {
	c.nanos.Store(t.UnixNano())
}

// Advance moves the clock forward by d and returns the new time.
func (c *Clock) Advance(d time.Duration) time.Time {
	return time.Unix(0, c.nanos.Add(int64(d))).UTC()
}
