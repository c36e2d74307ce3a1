// Package beacon plays a stored message periodically. The interval in seconds
// is entered in command mode as a string of digits and kept in a user scalar
// slot of the engine's non-volatile storage.
package beacon

import (
	"time"

	"yackgo/pkg/keyer"
	"yackgo/pkg/session"
)

const (
	// MaxInterval is the longest accepted interval in seconds.
	MaxInterval = 9999
	// Unloaded marks an interval that has not been read from storage yet.
	Unloaded uint16 = 65000

	DefaultUserSlot      = 1
	DefaultMessageSlot   = 4
	DefaultRecordTimeout = 10 * time.Second
)

// Engine is the part of keyer.Engine the scheduler uses.
type Engine interface {
	keyer.Sounder
	keyer.Messages
	keyer.Storage
	keyer.Control
	keyer.Timing
	keyer.Power
	DecodeChar() byte
	Active() bool
}

// Options configures a Scheduler. Zero values select the defaults.
type Options struct {
	UserSlot      int
	MessageSlot   int
	RecordTimeout time.Duration
}

// Scheduler counts the beacon interval down and fires the beacon message.
type Scheduler struct {
	eng  Engine
	sess *session.Context
	opts Options

	interval      uint16
	second        uint32
	oneSecond     uint32
	recordTimeout uint32
}

// New returns a scheduler whose interval is loaded on the first Tick.
func New(eng Engine, sess *session.Context, opts Options) *Scheduler {
	if opts.UserSlot <= 0 {
		opts.UserSlot = DefaultUserSlot
	}
	if opts.MessageSlot <= 0 {
		opts.MessageSlot = DefaultMessageSlot
	}
	if opts.RecordTimeout <= 0 {
		opts.RecordTimeout = DefaultRecordTimeout
	}
	return &Scheduler{
		eng:           eng,
		sess:          sess,
		opts:          opts,
		interval:      Unloaded,
		oneSecond:     sess.Ticks(time.Second),
		recordTimeout: sess.Ticks(opts.RecordTimeout),
	}
}

// Interval returns the seconds left in the running countdown.
func (s *Scheduler) Interval() uint16 {
	return s.interval
}

// Record announces itself with 'N' and collects interval digits until the
// operator stops keying. A value up to MaxInterval is stored and read back;
// anything larger sounds the error prosign and leaves storage untouched.
// The control key abandons the entry.
func (s *Scheduler) Record() session.Exit {
	defer s.sess.Enter(session.BeaconRecord)()

	s.eng.PlayChar('N')

	var value uint32
	timer := session.NewCountdown(s.recordTimeout)
	for {
		if s.eng.TakeControl() {
			s.sess.Log().Debug("Beacon entry abandoned")
			return session.ExitInterrupt
		}
		c := s.eng.DecodeChar()
		s.eng.Beat()
		if c != 0 {
			timer.Arm(s.recordTimeout)
			if c >= '0' && c <= '9' {
				value = value*10 + uint32(c-'0')
				// Saturate so further digits cannot wrap back into range.
				if value > MaxInterval {
					value = MaxInterval + 1
				}
			}
			continue
		}
		if s.eng.Active() {
			timer.Arm(s.recordTimeout)
			continue
		}
		if timer.Tick() {
			break
		}
	}

	if value > MaxInterval {
		s.sess.Log().Info("Beacon interval rejected", "max", MaxInterval)
		s.eng.SoundError()
		return session.ExitDone
	}

	v := uint16(value)
	if err := s.eng.WriteUser(s.opts.UserSlot, v); err != nil {
		s.sess.Log().Warn("Failed to store beacon interval", "error", err)
	}
	s.interval = v
	s.second = 0
	s.sess.Log().Info("Beacon interval set", "seconds", v)
	s.eng.PlayNumber(v)
	return session.ExitDone
}

// Tick advances the beacon by one heartbeat. It keeps the engine awake while
// a countdown is running and plays the beacon message when it expires.
func (s *Scheduler) Tick() {
	if s.interval == Unloaded {
		s.interval = s.load()
	}
	if s.interval == 0 {
		s.eng.InhibitSleep(false)
		return
	}

	s.eng.InhibitSleep(true)
	if s.second > 0 {
		s.second--
		return
	}
	s.second = s.oneSecond
	s.interval--
	if s.interval > 0 {
		return
	}

	s.interval = s.load()
	s.sess.Log().Debug("Beacon fired", "slot", s.opts.MessageSlot, "next", s.interval)
	s.sess.Metrics.BeaconFired()
	s.eng.PlayMessage(s.opts.MessageSlot)
}

func (s *Scheduler) load() uint16 {
	v := s.eng.ReadUser(s.opts.UserSlot)
	if v > MaxInterval {
		return 0
	}
	return v
}
