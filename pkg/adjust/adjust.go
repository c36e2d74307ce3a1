// Package adjust implements the interactive pitch and Farnsworth adjustment
// loops. Each loop plays a short pattern, then samples the raw paddle
// contacts: DIT steps the parameter one way, DAH the other. The loop ends after
// a run of quiet cycles or on a control-key press. Every step is applied to the
// engine immediately, so an interrupt leaves the value where it was.
package adjust

import (
	"yackgo/pkg/keyer"
	"yackgo/pkg/session"
)

// DefaultRepeat is the number of quiet cycles that end a loop.
const DefaultRepeat = 10

// Engine is the part of keyer.Engine the loops use.
type Engine interface {
	keyer.Sounder
	keyer.Adjuster
	keyer.Control
	Contact(side keyer.Side) bool
}

// Loops runs the adjustment loops against one engine.
type Loops struct {
	eng    Engine
	sess   *session.Context
	repeat int
}

// New returns adjustment loops. repeat <= 0 selects DefaultRepeat.
func New(eng Engine, sess *session.Context, repeat int) *Loops {
	if repeat <= 0 {
		repeat = DefaultRepeat
	}
	return &Loops{eng: eng, sess: sess, repeat: repeat}
}

// Pitch adjusts the sidetone frequency. DIT raises it, DAH lowers it.
func (l *Loops) Pitch() session.Exit {
	return l.run(session.PitchAdjust,
		false,
		func() { l.eng.PlayChar('E') },
		func() { l.eng.AdjustPitch(keyer.Up) },
		func() { l.eng.AdjustPitch(keyer.Down) },
	)
}

// Farnsworth adjusts the extra inter-character pause. DIT lengthens it (the
// effective speed goes down), DAH shortens it. The control key is checked
// before each pattern, and the pattern ends with the current pause so its
// effect is heard.
func (l *Loops) Farnsworth() session.Exit {
	return l.run(session.FarnsworthAdjust,
		true,
		func() {
			l.eng.PlayElement(keyer.ElementDit)
			l.eng.Delay(keyer.GapElement)
			l.eng.PlayElement(keyer.ElementDah)
			l.eng.Delay(keyer.GapCharacter)
			l.eng.FarnsworthPause()
		},
		func() { l.eng.AdjustSpeed(keyer.Down, keyer.AxisFarnsworth) },
		func() { l.eng.AdjustSpeed(keyer.Up, keyer.AxisFarnsworth) },
	)
}

// run loops pattern until repeat quiet cycles pass. controlFirst polls the
// control key before the pattern instead of after it.
func (l *Loops) run(mode session.Mode, controlFirst bool, pattern, onDit, onDah func()) session.Exit {
	defer l.sess.Enter(mode)()

	steps := 0
	for left := l.repeat; left > 0; {
		if controlFirst && l.eng.TakeControl() {
			l.sess.Log().Debug("Adjustment interrupted", "mode", mode, "steps", steps)
			return session.ExitInterrupt
		}
		pattern()
		if !controlFirst && l.eng.TakeControl() {
			l.sess.Log().Debug("Adjustment interrupted", "mode", mode, "steps", steps)
			return session.ExitInterrupt
		}
		left--
		switch {
		case l.eng.Contact(keyer.Dit):
			onDit()
			left = l.repeat
			steps++
		case l.eng.Contact(keyer.Dah):
			onDah()
			left = l.repeat
			steps++
		}
	}
	l.sess.Log().Debug("Adjustment converged", "mode", mode, "steps", steps)
	return session.ExitDone
}
