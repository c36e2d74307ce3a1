// Package callsign builds synthetic amateur callsigns for the trainer.
package callsign

// Length is the number of characters in a synthetic callsign.
const Length = 5

// Source supplies bounded random values.
type Source interface {
	Next(bound uint8) uint8
}

// Callsign is a fixed-shape callsign: letter, letter, digit, letter, letter.
type Callsign [Length]byte

// Synthesize draws a new callsign from src.
func Synthesize(src Source) Callsign {
	var c Callsign
	for i := range c {
		if i == 2 {
			c[i] = '0' + src.Next(10)
		} else {
			c[i] = 'A' + src.Next(26)
		}
	}
	return c
}

func (c Callsign) String() string {
	return string(c[:])
}

// Valid reports whether c has the letter-letter-digit-letter-letter shape.
func (c Callsign) Valid() bool {
	for i, ch := range c {
		if i == 2 {
			if ch < '0' || ch > '9' {
				return false
			}
			continue
		}
		if ch < 'A' || ch > 'Z' {
			return false
		}
	}
	return true
}
