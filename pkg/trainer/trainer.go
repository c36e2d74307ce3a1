// Package trainer implements the callsign trainer: it sends a synthetic
// callsign and waits for the operator to key it back character by character.
package trainer

import (
	"time"

	"yackgo/pkg/callsign"
	"yackgo/pkg/keyer"
	"yackgo/pkg/session"
)

// DefaultTimeout is how long the trainer waits for the next character.
const DefaultTimeout = 10 * time.Second

// Engine is the part of keyer.Engine the trainer uses.
type Engine interface {
	keyer.Sounder
	keyer.Control
	keyer.Timing
	DecodeChar() byte
	Active() bool
}

// Trainer runs training sessions. Rounds go Presenting, AwaitingChar(i),
// Advance or Error, ..., Done, and repeat until timeout or interrupt.
type Trainer struct {
	eng     Engine
	sess    *session.Context
	timeout uint32
}

// New returns a trainer. timeout <= 0 selects DefaultTimeout.
func New(eng Engine, sess *session.Context, timeout time.Duration) *Trainer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Trainer{eng: eng, sess: sess, timeout: sess.Ticks(timeout)}
}

// Run trains until the operator stops responding or presses the control key.
// It returns ExitTimeout or ExitInterrupt.
func (t *Trainer) Run() session.Exit {
	defer t.sess.Enter(session.Training)()

	rounds := 0
	for {
		cs := callsign.Synthesize(t.sess.Rand)
		t.sess.Log().Debug("Trainer round", "round", rounds+1, "callsign", cs)

		if exit := t.round(cs); exit != session.ExitDone {
			t.sess.Log().Info("Trainer finished", "rounds", rounds, "exit", exit)
			return exit
		}
		rounds++
		t.sess.Metrics.TrainerRound()
		t.eng.PlayChar('R')
	}
}

// round presents cs and matches the operator's copy against it. A wrong
// character restarts the same callsign from the top.
func (t *Trainer) round(cs callsign.Callsign) session.Exit {
	for i := 0; i < callsign.Length; {
		if i == 0 && t.present(cs) {
			return session.ExitInterrupt
		}
		c, exit := t.await()
		if exit != session.ExitDone {
			return exit
		}
		if c == cs[i] {
			i++
			continue
		}
		t.sess.Log().Debug("Trainer miss", "want", string(cs[i]), "got", string(c), "pos", i)
		t.sess.Metrics.TrainerError()
		t.eng.SoundError()
		i = 0
	}
	return session.ExitDone
}

// present sends cs after a short breathing pause. It reports whether the
// control key interrupted it.
func (t *Trainer) present(cs callsign.Callsign) bool {
	t.eng.Delay(keyer.GapWord)
	t.eng.Delay(keyer.GapWord)
	for _, c := range cs {
		t.eng.PlayChar(c)
		t.eng.FarnsworthPause()
		if t.eng.TakeControl() {
			return true
		}
	}
	return false
}

// await polls for one decoded character. Paddle activity keeps the timeout armed.
func (t *Trainer) await() (byte, session.Exit) {
	timer := session.NewCountdown(t.timeout)
	for {
		if t.eng.TakeControl() {
			return 0, session.ExitInterrupt
		}
		c := t.eng.DecodeChar()
		t.eng.Beat()
		if c != 0 {
			return c, session.ExitDone
		}
		if t.eng.Active() {
			timer.Arm(t.timeout)
			continue
		}
		if timer.Tick() {
			return 0, session.ExitTimeout
		}
	}
}
