// Package host implements the keyer engine contract on a desktop machine.
// Characters arrive already decoded from an input source; the engine turns
// playback into sidetone and transmitter key-line activity with PARIS timing
// and keeps settings, user scalars and messages in the store.
//
// Input events are handed over on a channel and folded into engine state on
// the calling goroutine, so every method must be called from the same one.
package host

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"yackgo/pkg/audio"
	"yackgo/pkg/clock"
	"yackgo/pkg/input"
	"yackgo/pkg/keyer"
	"yackgo/pkg/logging"
	"yackgo/pkg/morse"
	"yackgo/pkg/settings"
	"yackgo/pkg/store"
)

const (
	DefaultTickRate       = 100
	DefaultTuneDuration   = 20 * time.Second
	DefaultMessageTimeout = 5 * time.Second
)

// Store is the persistence the engine needs.
type Store interface {
	store.StateStore
	store.MessageStore
}

// Options configures an Engine. Zero values select the defaults.
type Options struct {
	TickRate       int
	TuneDuration   time.Duration
	MessageTimeout time.Duration
	// OnInputClosed runs once when the input source goes away.
	OnInputClosed func()
	Logger        *slog.Logger
}

// Engine implements keyer.Engine.
type Engine struct {
	ctx    context.Context
	clk    clock.Clock
	ticker clock.Ticker
	events <-chan input.Event
	tx     input.Transmitter
	tone   audio.Sidetone
	set    *settings.Manager
	st     Store
	opts   Options
	log    *slog.Logger

	queue    []byte
	control  bool
	contacts [2]bool
	latched  [2]bool
	closed   bool

	inhibited      bool
	sleepInhibited bool
	rx             strings.Builder
}

var _ keyer.Engine = (*Engine)(nil)

// New creates an engine. tx may be nil when the input source has no key line.
func New(ctx context.Context, clk clock.Clock, src <-chan input.Event, tx input.Transmitter,
	tone audio.Sidetone, set *settings.Manager, st Store, opts Options,
) *Engine {
	if opts.TickRate <= 0 {
		opts.TickRate = DefaultTickRate
	}
	if opts.TuneDuration <= 0 {
		opts.TuneDuration = DefaultTuneDuration
	}
	if opts.MessageTimeout <= 0 {
		opts.MessageTimeout = DefaultMessageTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if tone == nil {
		tone = audio.Silent{}
	}
	e := &Engine{
		ctx:    ctx,
		clk:    clk,
		ticker: clk.NewTicker(time.Second / time.Duration(opts.TickRate)),
		events: src,
		tx:     tx,
		tone:   tone,
		set:    set,
		st:     st,
		opts:   opts,
		log:    opts.Logger,
	}
	if err := tone.SetPitch(set.Pitch()); err != nil {
		e.log.Warn("Failed to set sidetone pitch", "error", err)
	}
	e.releaseLine()
	return e
}

// Close stops the heartbeat and releases the key line.
func (e *Engine) Close() {
	e.flushRx()
	e.releaseLine()
	e.ticker.Stop()
}

// pump folds pending input events into engine state without blocking.
func (e *Engine) pump() {
	for !e.closed {
		select {
		case ev, ok := <-e.events:
			if !ok {
				e.closed = true
				e.log.Info("Input source closed")
				if e.opts.OnInputClosed != nil {
					e.opts.OnInputClosed()
				}
				return
			}
			e.apply(ev)
		default:
			return
		}
	}
}

func (e *Engine) apply(ev input.Event) {
	switch ev.Kind {
	case input.Char:
		e.queue = append(e.queue, ev.Char)
	case input.Control:
		e.control = true
	case input.Contact:
		side := ev.Side
		if e.set.Flag(keyer.PaddleSwap) {
			side = 1 - side
		}
		e.contacts[side] = ev.Down
		if ev.Down {
			e.latched[side] = true
		}
		logging.Trace(e.log, "Contact", "side", side, "down", ev.Down)
	}
}

// --- Decoder ---

// DecodeChar returns the next decoded character or 0. The character is
// echoed on the sidetone, and also keyed unless output is inhibited.
func (e *Engine) DecodeChar() byte {
	e.pump()
	if len(e.queue) == 0 {
		return 0
	}
	ch := e.queue[0]
	e.queue = e.queue[1:]

	e.rx.WriteByte(ch)
	if ch == ' ' {
		e.flushRx()
	}
	e.playChar(ch, !e.inhibited)
	return ch
}

// WaitChar blocks until a character is decoded. It returns 0 once the input
// source has gone away.
func (e *Engine) WaitChar() byte {
	for {
		if ch := e.DecodeChar(); ch != 0 {
			return ch
		}
		if e.closed {
			return 0
		}
		e.Beat()
	}
}

// Active reports a held paddle contact.
func (e *Engine) Active() bool {
	e.pump()
	return e.contacts[keyer.Dit] || e.contacts[keyer.Dah]
}

// Contact reports whether side is closed now or was closed since the last
// call. Keyboard contacts are momentary pulses.
func (e *Engine) Contact(side keyer.Side) bool {
	e.pump()
	v := e.contacts[side] || e.latched[side]
	e.latched[side] = false
	return v
}

// --- Control ---

func (e *Engine) PeekControl() bool {
	e.pump()
	return e.control || e.stopping()
}

// TakeControl consumes a control press. Once the engine is stopping it keeps
// reporting a press so every loop unwinds through its interrupt path.
func (e *Engine) TakeControl() bool {
	e.pump()
	v := e.control
	e.control = false
	return v || e.stopping()
}

// stopping reports a cancelled context or a closed input source.
func (e *Engine) stopping() bool {
	return e.closed || e.ctx.Err() != nil
}

// --- Timing ---

// Beat waits for the next heartbeat, or returns at once when ctx is done.
func (e *Engine) Beat() {
	select {
	case <-e.ticker.C():
	case <-e.ctx.Done():
	}
	e.pump()
}

// ticks converts d into heartbeats, at least one.
func (e *Engine) ticks(d time.Duration) int {
	n := int(d * time.Duration(e.opts.TickRate) / time.Second)
	return max(n, 1)
}

// --- Power ---

func (e *Engine) InhibitSleep(inhibit bool) {
	if e.sleepInhibited != inhibit {
		e.sleepInhibited = inhibit
		e.log.Debug("Sleep inhibit", "on", inhibit)
	}
}

// SleepInhibited reports the last InhibitSleep request.
func (e *Engine) SleepInhibited() bool { return e.sleepInhibited }

// --- Output ---

// Inhibit switches sidetone-only operation.
func (e *Engine) Inhibit(on bool) {
	e.flushRx()
	e.inhibited = on
	e.releaseLine()
}

// Inhibited reports sidetone-only operation.
func (e *Engine) Inhibited() bool { return e.inhibited }

// Tune keys the transmitter until the control key or the tune duration.
func (e *Engine) Tune() {
	e.log.Info("Tune", "max", e.opts.TuneDuration)
	e.keyDown(true)
	for left := e.ticks(e.opts.TuneDuration); left > 0; left-- {
		if e.TakeControl() {
			break
		}
		e.Beat()
	}
	e.keyUp(true)
}

func (e *Engine) flushRx() {
	if e.rx.Len() == 0 {
		return
	}
	logging.LogTranscript("rx", strings.TrimSpace(e.rx.String()))
	e.rx.Reset()
}
