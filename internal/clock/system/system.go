// Package system provides a real clock implementation.
package system

import "time"

// Clock implements tracker.Clock using time.Now in a fixed location. The
// location decides which calendar day "today" is for live records.
type Clock struct {
	loc *time.Location
}

// New creates a Clock reporting times in loc; nil means the host's local zone.
func New(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.Local
	}
	return &Clock{loc: loc}
}

// Now returns the current time.
func (c *Clock) Now() time.Time {
	return time.Now().In(c.loc)
}

// Location reports the zone Now uses.
func (c *Clock) Location() *time.Location {
	return c.loc
}
