package session

import "sync/atomic"

// Sequencer hands out strictly increasing sequence numbers.
// Implemented by Clock and by testutil.DeterministicClock.
type Sequencer interface {
	Next() int64
	Current() int64
}

// Clock is the monotonic logical clock stamping commands. It is atomic so
// Current can be read from another goroutine while a session runs.
type Clock struct {
	seq atomic.Int64
}

// NewClock returns a clock whose first Next is 1.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt returns a clock whose first Next is start+1. Used to resume a
// journaled session.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next advances the clock and returns the new value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last value handed out.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
