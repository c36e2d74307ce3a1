// Package session holds the state shared by every mode of the control layer:
// the active mode, the callsign random generator, the heartbeat rate that
// converts seconds into countdown ticks, and the logger/metrics sinks.
//
// A single Context is created at startup and passed explicitly to every
// component. It is only touched from the control goroutine and needs no locking.
package session

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"yackgo/pkg/lfsr"
	"yackgo/pkg/metrics"
)

// DefaultTickRate is the heartbeat rate of the reference hardware (10 ms beats).
const DefaultTickRate = 100

// Options configures a Context.
type Options struct {
	TickRate int // heartbeat ticks per second
	Seed     uint16
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
}

// Context is the process-wide control-layer state.
type Context struct {
	Rand    *lfsr.Generator
	Metrics *metrics.Metrics

	log      *slog.Logger
	base     *slog.Logger
	tickRate int
	mode     Mode
	visit    string
}

// New creates a Context in Normal mode.
func New(opts Options) *Context {
	if opts.TickRate <= 0 {
		opts.TickRate = DefaultTickRate
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Context{
		Rand:     lfsr.New(opts.Seed),
		Metrics:  opts.Metrics,
		log:      logger,
		base:     logger,
		tickRate: opts.TickRate,
	}
}

// Log returns the logger, tagged with the current command-mode visit if any.
func (c *Context) Log() *slog.Logger {
	return c.log
}

// TickRate returns heartbeat ticks per second.
func (c *Context) TickRate() int {
	return c.tickRate
}

// Ticks converts d into heartbeat ticks, never less than one.
func (c *Context) Ticks(d time.Duration) uint32 {
	n := uint32(d * time.Duration(c.tickRate) / time.Second)
	if n == 0 {
		n = 1
	}
	return n
}

// Mode returns the active mode.
func (c *Context) Mode() Mode {
	return c.mode
}

// Enter switches to m and returns a func that restores the previous mode.
func (c *Context) Enter(m Mode) (restore func()) {
	prev := c.mode
	c.mode = m
	c.Metrics.ModeEntered(m.String())
	c.log.Debug("Mode entered", "mode", m, "from", prev)
	return func() {
		c.mode = prev
		c.log.Debug("Mode left", "mode", m, "to", prev)
	}
}

// BeginVisit tags subsequent log records with a fresh command-mode visit id.
func (c *Context) BeginVisit() string {
	c.visit = uuid.NewString()
	c.log = c.base.With("visit", c.visit)
	return c.visit
}

// EndVisit drops the visit tag.
func (c *Context) EndVisit() {
	c.visit = ""
	c.log = c.base
}
