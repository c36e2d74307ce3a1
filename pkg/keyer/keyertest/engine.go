// Package keyertest provides a scripted, in-memory keyer.Engine for tests.
//
// Input is consumed one entry per DecodeChar call, so the index of an entry is
// the polling iteration it is seen on. Every contract call except Beat,
// DecodeChar, the queries and InhibitSleep is appended to Calls as a short
// string ("char R", "string V0.87", "toggle sidetone", ...).
package keyertest

import (
	"fmt"
	"strings"

	"yackgo/pkg/keyer"
)

// Engine is a fake keyer.Engine.
type Engine struct {
	// Input is consumed one byte per DecodeChar call; 0 is an idle poll.
	Input []byte
	// Calls records contract calls in order.
	Calls []string

	Beats int
	Polls int

	Mode       keyer.ModeVariant
	Flags      map[keyer.Flag]bool
	Pitch      int
	Farnsworth int
	Speed      uint8
	User       map[int]uint16
	Messages   map[int]string

	Inhibited      bool
	SleepInhibited bool
	Saves          int
	Resets         int

	// OnPoll runs before each DecodeChar.
	OnPoll func(e *Engine)
	// OnPlay runs after every audible call with its Calls entry.
	OnPlay func(e *Engine, call string)
	// OnContact decides paddle contact state. Nil means open contacts.
	OnContact func(e *Engine, side keyer.Side) bool
	// OnActive decides Active. Nil means never active.
	OnActive func(e *Engine) bool

	control bool
	played  strings.Builder
}

var _ keyer.Engine = (*Engine)(nil)

// New returns an engine at 20 wpm with sidetone and keying enabled.
func New(input ...byte) *Engine {
	return &Engine{
		Input: input,
		Flags: map[keyer.Flag]bool{
			keyer.Sidetone: true,
			keyer.TxKey:    true,
		},
		Speed:    20,
		Pitch:    700,
		User:     make(map[int]uint16),
		Messages: make(map[int]string),
	}
}

// PressControl makes a control-key press pending.
func (e *Engine) PressControl() { e.control = true }

// ControlPending reports whether a press is still unconsumed.
func (e *Engine) ControlPending() bool { return e.control }

// Count returns how many times call was recorded.
func (e *Engine) Count(call string) int {
	n := 0
	for _, c := range e.Calls {
		if c == call {
			n++
		}
	}
	return n
}

// CountPrefix returns how many recorded calls start with prefix.
func (e *Engine) CountPrefix(prefix string) int {
	n := 0
	for _, c := range e.Calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// Index returns the position of the first recorded call, or -1.
func (e *Engine) Index(call string) int {
	for i, c := range e.Calls {
		if c == call {
			return i
		}
	}
	return -1
}

// Last returns the most recent recorded call.
func (e *Engine) Last() string {
	if len(e.Calls) == 0 {
		return ""
	}
	return e.Calls[len(e.Calls)-1]
}

// Played returns everything sent through PlayChar and PlayString.
func (e *Engine) Played() string { return e.played.String() }

func (e *Engine) record(call string) {
	e.Calls = append(e.Calls, call)
}

func (e *Engine) sound(call string) {
	e.record(call)
	if e.OnPlay != nil {
		e.OnPlay(e, call)
	}
}

// --- Decoder ---

func (e *Engine) DecodeChar() byte {
	e.Polls++
	if e.OnPoll != nil {
		e.OnPoll(e)
	}
	if len(e.Input) == 0 {
		return 0
	}
	c := e.Input[0]
	e.Input = e.Input[1:]
	return c
}

func (e *Engine) WaitChar() byte {
	for len(e.Input) > 0 {
		if c := e.DecodeChar(); c != 0 {
			return c
		}
	}
	return 0
}

func (e *Engine) Active() bool {
	if e.OnActive != nil {
		return e.OnActive(e)
	}
	return false
}

func (e *Engine) Contact(side keyer.Side) bool {
	if e.OnContact != nil {
		return e.OnContact(e, side)
	}
	return false
}

// --- Sounder ---

func (e *Engine) PlayChar(c byte) {
	e.played.WriteByte(c)
	e.sound("char " + string(c))
}

func (e *Engine) PlayString(s string) {
	e.played.WriteString(s)
	e.sound("string " + s)
}

func (e *Engine) PlayElement(el keyer.Element) { e.sound("element " + el.String()) }

func (e *Engine) PlayNumber(n uint16) { e.sound(fmt.Sprintf("number %d", n)) }

func (e *Engine) Delay(g keyer.Gap) { e.record("delay " + g.String()) }

func (e *Engine) FarnsworthPause() { e.record("farnsworth") }

func (e *Engine) SoundError() { e.sound("error") }

// --- Adjuster ---

func (e *Engine) AdjustPitch(d keyer.Direction) {
	if d == keyer.Up {
		e.Pitch += 20
	} else {
		e.Pitch -= 20
	}
	e.record("pitch " + d.String())
}

func (e *Engine) AdjustSpeed(d keyer.Direction, axis keyer.Axis) {
	if axis == keyer.AxisFarnsworth {
		if d == keyer.Down {
			e.Farnsworth++
		} else if e.Farnsworth > 0 {
			e.Farnsworth--
		}
	} else if d == keyer.Up {
		e.Speed++
	} else {
		e.Speed--
	}
	e.record("speed " + d.String() + " " + axis.String())
}

func (e *Engine) WPM() uint8 { return e.Speed }

// --- Configurator ---

func (e *Engine) SetMode(v keyer.ModeVariant) {
	e.Mode = v
	e.record("mode " + v.String())
}

func (e *Engine) Toggle(f keyer.Flag) {
	e.Flags[f] = !e.Flags[f]
	e.record("toggle " + f.String())
}

func (e *Engine) Flag(f keyer.Flag) bool { return e.Flags[f] }

func (e *Engine) Save() error {
	e.Saves++
	e.record("save")
	return nil
}

func (e *Engine) Reset() {
	e.Resets++
	e.record("reset")
}

// --- Messages ---

func (e *Engine) PlayMessage(slot int) { e.sound(fmt.Sprintf("play %d", slot)) }

func (e *Engine) RecordMessage(slot int) { e.record(fmt.Sprintf("record %d", slot)) }

// --- Storage ---

func (e *Engine) ReadUser(slot int) uint16 { return e.User[slot] }

func (e *Engine) WriteUser(slot int, v uint16) error {
	e.User[slot] = v
	e.record(fmt.Sprintf("write %d %d", slot, v))
	return nil
}

// --- Control ---

func (e *Engine) PeekControl() bool { return e.control }

func (e *Engine) TakeControl() bool {
	c := e.control
	e.control = false
	return c
}

// --- Timing / Power / Output ---

func (e *Engine) Beat() { e.Beats++ }

func (e *Engine) InhibitSleep(inhibit bool) { e.SleepInhibited = inhibit }

func (e *Engine) Inhibit(on bool) {
	e.Inhibited = on
	if on {
		e.record("inhibit on")
	} else {
		e.record("inhibit off")
	}
}

func (e *Engine) Tune() { e.record("tune") }
