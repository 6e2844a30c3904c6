package truth

import "sync/atomic"

// Sequencer hands out strictly increasing record numbers for truth events.
// Implemented by Clock (production) and testutil.DeterministicClock (tests).
type Sequencer interface {
	Next() int64
	Current() int64
}

// Clock is the monotonic logical clock that stamps every recorded event.
//
// Event order is (Timestamp, Seq): the in-world hour first, then the order
// in which the simulator recorded the event. Seq never comes from wall time,
// so a replay of the same writes yields the same order.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0. The first Next returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock resuming from start.
// Used when rebuilding a state from a journal.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last issued sequence number.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
