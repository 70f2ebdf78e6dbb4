package sysutil

import "time"

// Clock supplies timestamps to code that stamps records, so tests can pin
// the time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock in UTC.
var SystemClock Clock = ClockFunc(func() time.Time { return time.Now().UTC() })

// NowFrom returns c.Now(), or SystemClock.Now() when c is nil.
func NowFrom(c Clock) time.Time {
	if c == nil {
		return SystemClock.Now()
	}
	return c.Now()
}
