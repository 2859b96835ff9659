package interview

import (
	"sync"
	"time"
)

// Countdown drives the once-per-second tick loop for the session timer.
// Starting a new countdown supersedes any previous one; a superseded loop
// never ticks or expires again.
type Countdown struct {
	interval time.Duration

	mu  sync.Mutex
	gen uint64
}

// NewCountdown creates a countdown ticking at the given interval. Production
// code passes time.Second; tests pass something shorter.
func NewCountdown(interval time.Duration) *Countdown {
	if interval <= 0 {
		interval = time.Second
	}
	return &Countdown{interval: interval}
}

// Start launches a new tick loop. tick runs once per interval and returns
// the remaining seconds and whether the timer is still armed; the loop stops
// when it is disarmed. expire runs exactly once when the countdown reaches
// zero while still armed.
func (c *Countdown) Start(tick func() (remaining int, active bool), expire func()) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	go c.run(gen, tick, expire)
}

// Stop supersedes the current loop without ticking it again
func (c *Countdown) Stop() {
	c.mu.Lock()
	c.gen++
	c.mu.Unlock()
}

func (c *Countdown) current(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen == gen
}

func (c *Countdown) run(gen uint64, tick func() (int, bool), expire func()) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for range ticker.C {
		if !c.current(gen) {
			return
		}
		remaining, active := tick()
		if !active {
			return
		}
		if remaining <= 0 {
			if c.current(gen) {
				expire()
			}
			return
		}
	}
}
