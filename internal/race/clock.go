package race

import (
	"sync"
	"time"
)

// Clock supplies monotonic timestamps for level timing and pause deadlines.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock (with its monotonic component).
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// TickClock is a manually advanced clock for headless runs and tests.
type TickClock struct {
	mu   sync.RWMutex
	now  time.Time
	step time.Duration
}

// NewTickClock starts at start; Tick advances by step.
func NewTickClock(start time.Time, step time.Duration) *TickClock {
	return &TickClock{now: start, step: step}
}

func (c *TickClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// Tick advances by one step.
func (c *TickClock) Tick() {
	c.Advance(c.step)
}

func (c *TickClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
