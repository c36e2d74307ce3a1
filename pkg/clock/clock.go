// Package clock provides a testable abstraction over the time operations the
// host engine needs: the heartbeat ticker and blocking sleeps for tone timing.
package clock

import (
	"sync"
	"time"
)

// Clock provides an abstraction over time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// Sleep pauses for the specified duration.
	Sleep(d time.Duration)

	// NewTicker returns a new Ticker containing a channel that will
	// send the time with a period specified by the duration argument.
	NewTicker(d time.Duration) Ticker
}

// Ticker holds a channel that delivers "ticks" of a clock at intervals.
type Ticker interface {
	// C returns the channel on which the ticks are delivered.
	C() <-chan time.Time

	// Stop turns off a ticker.
	Stop()
}

// Real implements Clock using the standard time package.
type Real struct{}

func (Real) Now() time.Time        { return time.Now() }
func (Real) Sleep(d time.Duration) { time.Sleep(d) }

func (Real) NewTicker(d time.Duration) Ticker {
	return &realTicker{ticker: time.NewTicker(d)}
}

type realTicker struct {
	ticker *time.Ticker
}

func (t *realTicker) C() <-chan time.Time { return t.ticker.C }
func (t *realTicker) Stop()               { t.ticker.Stop() }

// Fake is a clock that advances itself: Sleep moves time forward without
// blocking, and every read of a ticker's channel delivers the next tick
// immediately. Single goroutine use only.
type Fake struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
	ticks  int
}

// NewFake creates a Fake set to the given time.
func NewFake(t time.Time) *Fake {
	return &Fake{now: t}
}

// Now returns the fake current time.
func (c *Fake) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward.
func (c *Fake) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Sleep records d and advances the clock by it.
func (c *Fake) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

// Sleeps returns all recorded sleep durations.
func (c *Fake) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]time.Duration, len(c.sleeps))
	copy(out, c.sleeps)
	return out
}

// Slept returns the sum of all sleeps.
func (c *Fake) Slept() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total time.Duration
	for _, d := range c.sleeps {
		total += d
	}
	return total
}

// Ticks returns how many ticks have been delivered across all tickers.
func (c *Fake) Ticks() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticks
}

// NewTicker returns a ticker that never blocks its reader.
func (c *Fake) NewTicker(d time.Duration) Ticker {
	return &fakeTicker{clock: c, interval: d, ch: make(chan time.Time, 1)}
}

type fakeTicker struct {
	clock    *Fake
	interval time.Duration
	ch       chan time.Time
	stopped  bool
}

// C advances the clock by one interval and returns a channel holding that tick.
func (t *fakeTicker) C() <-chan time.Time {
	if t.stopped {
		return t.ch
	}
	t.clock.mu.Lock()
	t.clock.now = t.clock.now.Add(t.interval)
	t.clock.ticks++
	now := t.clock.now
	t.clock.mu.Unlock()

	select {
	case t.ch <- now:
	default:
	}
	return t.ch
}

func (t *fakeTicker) Stop() { t.stopped = true }
