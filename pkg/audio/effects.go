package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep/v2"
)

// LowPass is a second-order Butterworth low pass over a stereo stream. It
// rounds off what is left of the keying edges.
type LowPass struct {
	beep.Streamer

	// normalised coefficients, a0 == 1
	b0, b1, b2, a1, a2 float64
	// per channel history
	x1, x2, y1, y2 [2]float64
}

// NewLowPass filters s at cutoff hertz.
func NewLowPass(s beep.Streamer, sr beep.SampleRate, cutoff float64) *LowPass {
	w := 2 * math.Pi * cutoff / float64(sr)
	alpha := math.Sin(w) / math.Sqrt2 // Q = 1/sqrt(2)
	cos := math.Cos(w)
	a0 := 1 + alpha
	return &LowPass{
		Streamer: s,
		b0:       (1 - cos) / 2 / a0,
		b1:       (1 - cos) / a0,
		b2:       (1 - cos) / 2 / a0,
		a1:       -2 * cos / a0,
		a2:       (1 - alpha) / a0,
	}
}

func (f *LowPass) Stream(samples [][2]float64) (int, bool) {
	n, ok := f.Streamer.Stream(samples)
	for i := range samples[:n] {
		for c := range 2 {
			x := samples[i][c]
			y := f.b0*x + f.b1*f.x1[c] + f.b2*f.x2[c] - f.a1*f.y1[c] - f.a2*f.y2[c]
			f.x2[c], f.x1[c] = f.x1[c], x
			f.y2[c], f.y1[c] = f.y1[c], y
			samples[i][c] = y
		}
	}
	return n, ok
}

// Envelope gates a tone with raised-cosine rise and fall edges. Key must be
// called with the speaker locked once the speaker is running.
type Envelope struct {
	beep.Streamer

	down  bool
	pos   int // samples into the rise, 0..rise
	rise  int
	shape []float64
}

// NewEnvelope gates s with edges lasting edge. The envelope starts key-up.
func NewEnvelope(s beep.Streamer, sr beep.SampleRate, edge time.Duration) *Envelope {
	n := sr.N(edge)
	if n < 1 {
		n = 1
	}
	shape := make([]float64, n+1)
	for i := range shape {
		shape[i] = 0.5 - 0.5*math.Cos(math.Pi*float64(i)/float64(n))
	}
	return &Envelope{Streamer: s, rise: n, shape: shape}
}

// Key starts the rise (down) or the fall (up) from the current gain.
func (e *Envelope) Key(down bool) {
	e.down = down
}

// Gain is the multiplier that will apply to the next sample.
func (e *Envelope) Gain() float64 {
	return e.shape[e.pos]
}

func (e *Envelope) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.Streamer.Stream(samples)
	for i := range samples[:n] {
		g := e.shape[e.pos]
		samples[i][0] *= g
		samples[i][1] *= g
		switch {
		case e.down && e.pos < e.rise:
			e.pos++
		case !e.down && e.pos > 0:
			e.pos--
		}
	}
	return n, ok
}

// volumeToPower maps a linear 0..1 volume to the exponent of effects.Volume
// with base 2.
func volumeToPower(vol float64) float64 {
	if vol <= 0.01 {
		return -10
	}
	return math.Log2(vol)
}
