package session

// Countdown counts heartbeat ticks down to zero. It is loop-local: each mode
// loop owns its own countdowns and re-arms them on qualifying activity.
type Countdown struct {
	remaining uint32
}

// NewCountdown returns a countdown armed with ticks.
func NewCountdown(ticks uint32) Countdown {
	return Countdown{remaining: ticks}
}

// Arm (re)starts the countdown.
func (c *Countdown) Arm(ticks uint32) {
	c.remaining = ticks
}

// Tick consumes one tick and reports whether the countdown has run out.
func (c *Countdown) Tick() bool {
	if c.remaining > 0 {
		c.remaining--
	}
	return c.remaining == 0
}

// Expired reports whether no ticks remain.
func (c *Countdown) Expired() bool {
	return c.remaining == 0
}

// Remaining returns the ticks left.
func (c *Countdown) Remaining() uint32 {
	return c.remaining
}
