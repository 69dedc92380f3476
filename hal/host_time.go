//go:build !tinygo

package hal

import (
	"sync"
	"time"
)

// hostClock is either the wall clock or a simulated clock that only moves
// when the runner steps it. The simulated clock makes headless runs
// reproducible: every tick is exactly one poll interval long.
type hostClock struct {
	mu       sync.Mutex
	realtime bool
	now      time.Time
	ticks    uint64
}

func newHostClock(realtime bool, start time.Time) *hostClock {
	if start.IsZero() {
		start = time.Now()
	}
	return &hostClock{realtime: realtime, now: start}
}

func (c *hostClock) Now() time.Time {
	if c.realtime {
		return time.Now()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// step advances the simulated clock by n ticks of d.
func (c *hostClock) step(n uint64, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticks += n
	if c.realtime {
		return
	}
	c.now = c.now.Add(time.Duration(n) * d)
}

func (c *hostClock) Ticks() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticks
}
