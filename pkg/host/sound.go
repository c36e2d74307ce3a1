package host

import (
	"strconv"

	"yackgo/pkg/keyer"
	"yackgo/pkg/logging"
	"yackgo/pkg/morse"
	"yackgo/pkg/settings"
)

func (e *Engine) timing() morse.Timing {
	t, err := morse.NewTiming(e.set.WPM())
	if err != nil {
		t, _ = morse.NewTiming(settings.MinWPM)
	}
	return t
}

// lineLevel applies the polarity invert flag.
func (e *Engine) lineLevel(down bool) bool {
	return down != e.set.Flag(keyer.TxInvert)
}

func (e *Engine) setLine(down bool) {
	if e.tx == nil {
		return
	}
	logging.Trace(e.log, "Key line", "down", down)
	if err := e.tx.Key(e.lineLevel(down)); err != nil {
		e.log.Warn("Failed to set key line", "down", down, "error", err)
	}
}

// releaseLine puts the key line in its idle state.
func (e *Engine) releaseLine() {
	e.setLine(false)
}

// keyDown starts the sidetone and, if tx and keying is enabled, the transmitter.
func (e *Engine) keyDown(tx bool) {
	if e.inhibited || e.set.Flag(keyer.Sidetone) {
		e.tone.On()
	}
	if tx && e.set.Flag(keyer.TxKey) {
		e.setLine(true)
	}
}

func (e *Engine) keyUp(tx bool) {
	e.tone.Off()
	if tx {
		e.setLine(false)
	}
}

func (e *Engine) playChar(ch byte, tx bool) {
	t := e.timing()
	if ch == ' ' {
		// The previous character already ended with a character gap.
		e.clk.Sleep(t.WordGap() - t.CharacterGap())
		return
	}
	pattern, ok := morse.Encode(ch)
	if !ok {
		e.log.Debug("No Morse for character", "char", string(ch))
		return
	}
	e.playPattern(pattern, tx)
}

// playPattern sends a dot/dash pattern followed by a character gap.
func (e *Engine) playPattern(pattern string, tx bool) {
	t := e.timing()
	for i := 0; i < len(pattern); i++ {
		if i > 0 {
			e.clk.Sleep(t.ElementGap())
		}
		d := t.Dit()
		if pattern[i] == '-' {
			d = t.Dah()
		}
		e.keyDown(tx)
		e.clk.Sleep(d)
		e.keyUp(tx)
	}
	e.clk.Sleep(t.CharacterGap())
}

// --- Sounder ---

func (e *Engine) PlayChar(c byte) {
	e.playChar(c, !e.inhibited)
}

func (e *Engine) PlayString(s string) {
	logging.LogTranscript("tx", s)
	for i := 0; i < len(s); i++ {
		e.playChar(s[i], !e.inhibited)
	}
}

// PlayElement keys one element. The caller supplies any gap after it.
func (e *Engine) PlayElement(el keyer.Element) {
	t := e.timing()
	d := t.Dit()
	if el == keyer.ElementDah {
		d = t.Dah()
	}
	e.keyDown(!e.inhibited)
	e.clk.Sleep(d)
	e.keyUp(!e.inhibited)
}

func (e *Engine) PlayNumber(n uint16) {
	e.PlayString(strconv.Itoa(int(n)))
}

func (e *Engine) Delay(g keyer.Gap) {
	t := e.timing()
	switch g {
	case keyer.GapElement:
		e.clk.Sleep(t.ElementGap())
	case keyer.GapCharacter:
		e.clk.Sleep(t.CharacterGap())
	case keyer.GapWord:
		e.clk.Sleep(t.WordGap())
	case keyer.GapAck:
		e.clk.Sleep(t.AckGap())
	}
}

func (e *Engine) FarnsworthPause() {
	if d := e.set.Farnsworth(); d > 0 {
		e.clk.Sleep(d)
	}
}

// SoundError plays the error prosign on the sidetone only.
func (e *Engine) SoundError() {
	e.playPattern(morse.Error, false)
}
