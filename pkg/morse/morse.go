// Package morse holds the International Morse code table and PARIS timing
// used by the host engine.
package morse

import (
	"errors"
	"time"
)

// ErrInvalidWPM is returned for a speed outside the usable range.
var ErrInvalidWPM = errors.New("wpm must be positive")

// codes maps upper-case characters to dot/dash patterns. '#' is the SK
// prosign sent as one character. Error is eight dits and has no character.
var codes = map[byte]string{
	'A': ".-", 'B': "-...", 'C': "-.-.", 'D': "-..", 'E': ".",
	'F': "..-.", 'G': "--.", 'H': "....", 'I': "..", 'J': ".---",
	'K': "-.-", 'L': ".-..", 'M': "--", 'N': "-.", 'O': "---",
	'P': ".--.", 'Q': "--.-", 'R': ".-.", 'S': "...", 'T': "-",
	'U': "..-", 'V': "...-", 'W': ".--", 'X': "-..-", 'Y': "-.--",
	'Z': "--..",
	'0': "-----", '1': ".----", '2': "..---", '3': "...--", '4': "....-",
	'5': ".....", '6': "-....", '7': "--...", '8': "---..", '9': "----.",
	'.': ".-.-.-", ',': "--..--", '?': "..--..", '/': "-..-.",
	'=': "-...-", '+': ".-.-.", '-': "-....-", '@': ".--.-.",
	'#': "...-.-",
}

// Error is the error prosign.
const Error = "........"

var decode = func() map[string]byte {
	m := make(map[string]byte, len(codes))
	for c, p := range codes {
		m[p] = c
	}
	return m
}()

// Encode returns the pattern for c. Lower-case letters are accepted.
func Encode(c byte) (string, bool) {
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	p, ok := codes[c]
	return p, ok
}

// Decode returns the character for a dot/dash pattern.
func Decode(pattern string) (byte, bool) {
	c, ok := decode[pattern]
	return c, ok
}

// Timing converts PARIS units into durations at one speed.
type Timing struct {
	dit time.Duration
}

// NewTiming returns the timing for wpm words per minute.
func NewTiming(wpm int) (Timing, error) {
	if wpm <= 0 {
		return Timing{}, ErrInvalidWPM
	}
	return Timing{dit: 1200 * time.Millisecond / time.Duration(wpm)}, nil
}

// Dit is one unit.
func (t Timing) Dit() time.Duration { return t.dit }

// Dah is three units.
func (t Timing) Dah() time.Duration { return 3 * t.dit }

// ElementGap is the silence between elements of one character.
func (t Timing) ElementGap() time.Duration { return t.dit }

// CharacterGap is the silence between characters.
func (t Timing) CharacterGap() time.Duration { return 3 * t.dit }

// WordGap is the silence between words.
func (t Timing) WordGap() time.Duration { return 7 * t.dit }

// AckGap precedes an acknowledgement so it does not run into earlier output.
func (t Timing) AckGap() time.Duration { return 3 * t.Dah() }
