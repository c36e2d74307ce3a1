// Package command implements command mode: the operator presses the control
// key, then keys single-character commands that change settings, run the
// adjustment loops, the trainer or beacon entry, and play or record messages.
//
// Commands come from two tables. The configuration table is consulted only
// while the configuration lock is off; the second table is always available.
package command

import (
	"time"

	"yackgo/pkg/keyer"
	"yackgo/pkg/session"
	"yackgo/pkg/version"
)

const (
	DefaultIdleTimeout  = 10 * time.Second
	DefaultMacroTimeout = 5 * time.Second

	greeting = '?'
	signOff  = '#'
	ack      = "R"
)

// Adjuster runs the interactive adjustment loops.
type Adjuster interface {
	Pitch() session.Exit
	Farnsworth() session.Exit
}

// Trainer runs a callsign training session.
type Trainer interface {
	Run() session.Exit
}

// BeaconRecorder captures a new beacon interval.
type BeaconRecorder interface {
	Record() session.Exit
}

// Options configures a Controller. Zero values select the defaults.
type Options struct {
	IdleTimeout  time.Duration
	MacroTimeout time.Duration
	// Version is keyed out by the V command.
	Version string
}

// Controller is the command-mode dispatcher.
type Controller struct {
	eng     keyer.Engine
	sess    *session.Context
	adjust  Adjuster
	trainer Trainer
	beacon  BeaconRecorder

	version string
	idle    uint32
	macro   uint32
	timer   session.Countdown

	lockable table
	always   table
}

// New builds a controller and its command tables.
func New(eng keyer.Engine, sess *session.Context, adj Adjuster, tr Trainer, bcn BeaconRecorder, opts Options) *Controller {
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = DefaultIdleTimeout
	}
	if opts.MacroTimeout <= 0 {
		opts.MacroTimeout = DefaultMacroTimeout
	}
	if opts.Version == "" {
		opts.Version = "V" + version.Version
	}
	c := &Controller{
		eng:     eng,
		sess:    sess,
		adjust:  adj,
		trainer: tr,
		beacon:  bcn,
		version: opts.Version,
		idle:    sess.Ticks(opts.IdleTimeout),
		macro:   sess.Ticks(opts.MacroTimeout),
	}
	c.lockable = c.lockableTable()
	c.always = c.alwaysTable()
	return c
}

func (c *Controller) lockableTable() table {
	t := table{
		'R': c.ack(c.eng.Reset),
		'A': c.mode(keyer.IambicA),
		'B': c.mode(keyer.IambicB),
		'L': c.mode(keyer.Ultimatic),
		'D': c.mode(keyer.DahPriority),
		'X': c.toggle(keyer.PaddleSwap),
		'S': c.toggle(keyer.Sidetone),
		'K': c.toggle(keyer.TxKey),
		'F': c.toggle(keyer.TxInvert),
		'Z': c.ack(func() { c.adjust.Farnsworth() }),
		'N': c.ack(func() { c.beacon.Record() }),
	}
	for slot := 1; slot <= keyer.MessageSlots; slot++ {
		digit := byte('0' + slot)
		t[digit] = c.ack(func() {
			c.eng.PlayChar(digit)
			c.eng.RecordMessage(slot)
		})
	}
	return t
}

func (c *Controller) alwaysTable() table {
	t := table{
		'V': c.ack(func() { c.eng.PlayString(c.version) }),
		'P': c.ack(func() { c.adjust.Pitch() }),
		'U': c.ack(c.tune),
		'C': c.ack(func() { c.trainer.Run() }),
		'0': c.toggle(keyer.ConfLock),
		'W': c.ack(func() { c.eng.PlayNumber(uint16(c.eng.WPM())) }),
	}
	for i, ch := range []byte{'E', 'I', 'T', 'M'} {
		slot := i + 1
		t[ch] = func() Outcome {
			// Stored messages go on air, not just to the sidetone.
			c.eng.Inhibit(false)
			c.eng.PlayMessage(slot)
			c.eng.Inhibit(true)
			c.timer.Arm(c.macro)
			return Silent
		}
	}
	return t
}

func (c *Controller) ack(f func()) func() Outcome {
	return func() Outcome {
		f()
		return Acknowledge
	}
}

func (c *Controller) mode(v keyer.ModeVariant) func() Outcome {
	return c.ack(func() { c.eng.SetMode(v) })
}

func (c *Controller) toggle(f keyer.Flag) func() Outcome {
	return c.ack(func() { c.eng.Toggle(f) })
}

func (c *Controller) tune() {
	defer c.sess.Enter(session.Tune)()
	c.eng.Tune()
}

// Run enters command mode and returns when the operator has been idle for the
// idle timeout or presses the control key again.
func (c *Controller) Run() session.Exit {
	defer c.sess.Enter(session.Command)()
	c.sess.BeginVisit()
	defer c.sess.EndVisit()
	log := c.sess.Log()

	c.eng.Inhibit(true)
	c.eng.PlayChar(greeting)
	log.Info("Command mode entered")

	exit := session.ExitTimeout
	c.timer.Arm(c.idle)
	for !c.timer.Expired() {
		if c.eng.TakeControl() {
			exit = session.ExitInterrupt
			break
		}
		ch := c.eng.DecodeChar()
		c.eng.Beat()
		c.sess.Rand.Stir()
		if ch == 0 {
			c.timer.Tick()
			continue
		}
		c.timer.Arm(c.idle)
		c.handle(ch)
	}

	c.eng.PlayChar(signOff)
	c.eng.Inhibit(false)
	log.Info("Command mode left", "exit", exit)
	return exit
}

// handle dispatches one decoded character and produces the audible response.
func (c *Controller) handle(ch byte) {
	log := c.sess.Log()

	outcome := Unhandled
	locked := c.eng.Flag(keyer.ConfLock)
	if !locked {
		outcome = c.lockable.dispatch(ch)
	}
	if outcome == Unhandled {
		outcome = c.always.dispatch(ch)
	}

	switch {
	case outcome == Acknowledge:
		if err := c.eng.Save(); err != nil {
			log.Warn("Failed to save settings", "command", string(ch), "error", err)
		}
		c.eng.Delay(keyer.GapAck)
		c.eng.PlayString(ack)
		log.Debug("Command", "command", string(ch))
	case outcome == Silent:
		log.Debug("Command", "command", string(ch), "ack", false)
	case locked && c.lockable[ch] != nil:
		// Configuration commands are ignored while locked.
		log.Debug("Command locked", "command", string(ch))
		c.sess.Metrics.Command(ch, "locked")
		return
	default:
		log.Debug("Unknown command", "command", string(ch))
		c.sess.Metrics.Command(ch, "error")
		c.eng.SoundError()
		return
	}
	c.sess.Metrics.Command(ch, outcome.String())
}
