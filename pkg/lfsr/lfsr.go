// Package lfsr implements the small pseudo-random generator used to pick
// training callsigns. It is a 16-bit Galois linear-feedback shift register:
// cheap, deterministic for a given seed, and good enough for this purpose.
package lfsr

// DefaultSeed is the register value at power-up. Any non-zero value works;
// zero would lock the register at zero forever.
const DefaultSeed uint16 = 0xACE1

// taps is the feedback polynomial x^16 + x^14 + x^13 + x^11 + 1.
const taps uint16 = 0xB400

// Generator holds the shift register.
type Generator struct {
	state uint16
}

// New creates a generator seeded with seed. A zero seed is replaced by DefaultSeed.
func New(seed uint16) *Generator {
	if seed == 0 {
		seed = DefaultSeed
	}
	return &Generator{state: seed}
}

// Next advances the register once and returns a value in [0, bound).
// The high byte of the register is reduced by repeated subtraction; bound is
// always small so this never loops more than a handful of times.
// Callers must not pass 0; Next returns 0 in that case.
func (g *Generator) Next(bound uint8) uint8 {
	g.step()
	if bound == 0 {
		return 0
	}
	r := uint8(g.state >> 8)
	for r >= bound {
		r -= bound
	}
	return r
}

// Stir advances the register without producing a value. The command loop calls
// it on every idle poll so the number of steps taken depends on operator timing.
func (g *Generator) Stir() {
	g.step()
}

// State returns the current register contents.
func (g *Generator) State() uint16 {
	return g.state
}

func (g *Generator) step() {
	lsb := g.state & 1
	g.state >>= 1
	if lsb != 0 {
		g.state ^= taps
	}
}
