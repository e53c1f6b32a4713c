package game

import (
	"context"
	"sync"
	"time"
)

// Clock measures elapsed session time and ends the session once the
// configured duration is reached. Elapsed time is sampled from the monotonic
// clock on every tick, so scheduling jitter never accumulates.
type Clock struct {
	duration time.Duration
	tick     time.Duration

	mu    sync.RWMutex
	start time.Time

	over chan struct{}
	once sync.Once
}

func NewClock(duration, tick time.Duration) *Clock {
	if tick <= 0 {
		tick = DefaultTick
	}
	return &Clock{
		duration: duration,
		tick:     tick,
		over:     make(chan struct{}),
	}
}

// Run starts timing and returns when the session is over or ctx is done
func (c *Clock) Run(ctx context.Context) {
	c.mu.Lock()
	c.start = time.Now()
	c.mu.Unlock()

	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.over:
			return
		case <-ticker.C:
			if c.Elapsed() >= c.duration {
				c.End()
				return
			}
		}
	}
}

// Elapsed is the time since Run started, zero before that
func (c *Clock) Elapsed() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.start.IsZero() {
		return 0
	}
	return time.Since(c.start)
}

// Remaining is the time left before the duration is reached
func (c *Clock) Remaining() time.Duration {
	if c.Over() {
		return 0
	}
	left := c.duration - c.Elapsed()
	if left < 0 {
		return 0
	}
	return left
}

// End marks the session over. Only the first call has an effect.
func (c *Clock) End() {
	c.once.Do(func() { close(c.over) })
}

// Done is closed when the session is over
func (c *Clock) Done() <-chan struct{} {
	return c.over
}

func (c *Clock) Over() bool {
	select {
	case <-c.over:
		return true
	default:
		return false
	}
}
