package core

import "time"

// Clock is a monotonic elapsed-time source. The zero instant is
// established lazily on the first Elapsed call and stays fixed for the
// lifetime of the clock. time.Time carries a monotonic reading, so
// wall-clock adjustments never move results backwards.
type Clock struct {
	now     func() time.Time
	start   time.Time
	started bool
}

func NewClock() *Clock {
	return &Clock{now: time.Now}
}

// NewClockWithSource returns a clock driven by the provided time source.
// Tests use this to inject deterministic time.
func NewClockWithSource(now func() time.Time) *Clock {
	return &Clock{now: now}
}

// Elapsed returns the seconds passed since the first call. The first
// call defines time zero and returns 0.
func (c *Clock) Elapsed() float64 {
	if !c.started {
		c.start = c.now()
		c.started = true
		return 0
	}
	return c.now().Sub(c.start).Seconds()
}

// Reset discards the start instant. The next Elapsed call establishes
// a new time zero.
func (c *Clock) Reset() {
	c.started = false
}
