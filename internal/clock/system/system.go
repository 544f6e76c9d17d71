// Package system provides a real clock implementation.
package system

import "time"

// Clock implements watch.Clock using time.Now.
type Clock struct{}

// New creates a new Clock.
func New() *Clock {
	return &Clock{}
}

// Now returns the current time in UTC; timestamps in the state file
// and issue bodies are always UTC.
func (Clock) Now() time.Time {
	return time.Now().UTC()
}
