package lfsr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNext_Bounds(t *testing.T) {
	seeds := []uint16{DefaultSeed, 1, 0x8000, 0xFFFF, 0x1234}
	for _, seed := range seeds {
		g := New(seed)
		for n := 2; n <= 255; n++ {
			for i := 0; i < 64; i++ {
				v := g.Next(uint8(n))
				if int(v) >= n {
					t.Fatalf("seed %#04x: Next(%d) = %d, out of range", seed, n, v)
				}
			}
		}
	}
}

func TestNext_Trace(t *testing.T) {
	tests := []struct {
		name  string
		bound uint8
		want  []uint8
		state uint16
	}{
		{
			name:  "Letters",
			bound: 26,
			want:  []uint8{18, 9, 4, 2, 14, 23, 3, 12, 19, 22},
			state: 0x30B1,
		},
		{
			name:  "Bytes",
			bound: 255,
			want:  []uint8{226, 113, 56, 28, 14, 179, 237, 194},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(DefaultSeed)
			got := make([]uint8, len(tt.want))
			for i := range got {
				got[i] = g.Next(tt.bound)
			}
			assert.Equal(t, tt.want, got)
			if tt.state != 0 {
				assert.Equal(t, tt.state, g.State())
			}
		})
	}
}

func TestDeterministic(t *testing.T) {
	a, b := New(0x5A5A), New(0x5A5A)
	for i := 0; i < 1000; i++ {
		if a.Next(10) != b.Next(10) {
			t.Fatalf("sequences diverged at step %d", i)
		}
	}
}

func TestStir_AdvancesRegister(t *testing.T) {
	a, b := New(DefaultSeed), New(DefaultSeed)
	a.Stir()
	b.Next(255)
	assert.Equal(t, b.State(), a.State(), "Stir should advance exactly one step")
}

func TestNew_ZeroSeed(t *testing.T) {
	assert.Equal(t, DefaultSeed, New(0).State())
}

func TestNext_ZeroBound(t *testing.T) {
	g := New(DefaultSeed)
	assert.Equal(t, uint8(0), g.Next(0))
	assert.NotEqual(t, DefaultSeed, g.State())
}
