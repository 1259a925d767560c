package testutil

import "sync"

// DeterministicClock is a mutex-guarded logical clock for tests. It satisfies
// session.Sequencer, so a scenario run twice with a fresh clock stamps
// identical sequence numbers.
type DeterministicClock struct {
	mu  sync.Mutex
	seq int64
}

// NewDeterministicClock returns a clock whose first Next is 1.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{}
}

// NewDeterministicClockAt returns a clock whose first Next is start+1.
func NewDeterministicClockAt(start int64) *DeterministicClock {
	return &DeterministicClock{seq: start}
}

// Next advances the clock and returns the new value.
func (c *DeterministicClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// Current returns the last value handed out.
func (c *DeterministicClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}
