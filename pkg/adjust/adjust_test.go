package adjust

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"yackgo/pkg/keyer"
	"yackgo/pkg/keyer/keyertest"
	"yackgo/pkg/session"
)

// contacts closes the given side on the listed pattern cycles (1-based).
func contacts(cycles map[int]keyer.Side, eng *keyertest.Engine, patternCall string) {
	n := 0
	eng.OnPlay = func(e *keyertest.Engine, call string) {
		if call == patternCall {
			n++
		}
	}
	eng.OnContact = func(e *keyertest.Engine, side keyer.Side) bool {
		s, ok := cycles[n]
		return ok && s == side
	}
}

func TestPitch(t *testing.T) {
	tests := []struct {
		name      string
		cycles    map[int]keyer.Side
		wantPitch int
		wantTones int
		wantSteps []string
	}{
		{
			name:      "NoContactConverges",
			wantPitch: 700,
			wantTones: 10,
		},
		{
			name:      "DitRaisesAndRestartsCount",
			cycles:    map[int]keyer.Side{3: keyer.Dit},
			wantPitch: 720,
			wantTones: 13,
			wantSteps: []string{"pitch up"},
		},
		{
			name:      "DahLowers",
			cycles:    map[int]keyer.Side{1: keyer.Dah, 2: keyer.Dah},
			wantPitch: 660,
			wantTones: 12,
			wantSteps: []string{"pitch down", "pitch down"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := keyertest.New()
			contacts(tt.cycles, eng, "char E")
			sess := session.New(session.Options{})

			exit := New(eng, sess, 0).Pitch()

			assert.Equal(t, session.ExitDone, exit)
			assert.Equal(t, tt.wantPitch, eng.Pitch)
			assert.Equal(t, tt.wantTones, eng.Count("char E"))
			assert.Equal(t, len(tt.wantSteps), eng.CountPrefix("pitch "))
			assert.Equal(t, session.Normal, sess.Mode())
		})
	}
}

func TestPitch_DitTakesPrecedence(t *testing.T) {
	eng := keyertest.New()
	tones := 0
	eng.OnPlay = func(e *keyertest.Engine, call string) { tones++ }
	eng.OnContact = func(e *keyertest.Engine, side keyer.Side) bool {
		return tones == 1
	}

	New(eng, session.New(session.Options{}), 3).Pitch()

	assert.Equal(t, 1, eng.Count("pitch up"))
	assert.Equal(t, 0, eng.Count("pitch down"))
	assert.Equal(t, 4, tones)
}

func TestPitch_InterruptKeepsSteps(t *testing.T) {
	eng := keyertest.New()
	n := 0
	eng.OnPlay = func(e *keyertest.Engine, call string) {
		n++
		if n == 3 {
			e.PressControl()
		}
	}
	eng.OnContact = func(e *keyertest.Engine, side keyer.Side) bool {
		return side == keyer.Dit
	}

	exit := New(eng, session.New(session.Options{}), 0).Pitch()

	assert.Equal(t, session.ExitInterrupt, exit)
	assert.Equal(t, 740, eng.Pitch)
	assert.False(t, eng.ControlPending())
}

func TestFarnsworth_Pattern(t *testing.T) {
	eng := keyertest.New()

	exit := New(eng, session.New(session.Options{}), 1).Farnsworth()

	assert.Equal(t, session.ExitDone, exit)
	assert.Equal(t, []string{
		"element dit",
		"delay element",
		"element dah",
		"delay character",
		"farnsworth",
	}, eng.Calls)
}

func TestFarnsworth_Directions(t *testing.T) {
	eng := keyertest.New()
	eng.Farnsworth = 5
	contacts(map[int]keyer.Side{1: keyer.Dah, 2: keyer.Dah, 3: keyer.Dit}, eng, "element dah")

	New(eng, session.New(session.Options{}), 2).Farnsworth()

	// DAH shortens the pause, DIT lengthens it.
	assert.Equal(t, 2, eng.Count("speed up farnsworth"))
	assert.Equal(t, 1, eng.Count("speed down farnsworth"))
	assert.Equal(t, 4, eng.Farnsworth)
	assert.Equal(t, 5, eng.Count("farnsworth"))
}

func TestFarnsworth_DitLengthensPause(t *testing.T) {
	eng := keyertest.New()
	eng.Farnsworth = 5
	contacts(map[int]keyer.Side{1: keyer.Dit}, eng, "element dah")

	New(eng, session.New(session.Options{}), 1).Farnsworth()

	assert.Equal(t, 6, eng.Farnsworth)
	assert.Equal(t, []string{"speed down farnsworth"}, filter(eng.Calls, "speed "))
}

func TestFarnsworth_ControlCheckedBeforePattern(t *testing.T) {
	eng := keyertest.New()
	eng.PressControl()

	exit := New(eng, session.New(session.Options{}), 0).Farnsworth()

	assert.Equal(t, session.ExitInterrupt, exit)
	assert.Empty(t, eng.Calls)
	assert.False(t, eng.ControlPending())
}

func filter(calls []string, prefix string) []string {
	var out []string
	for _, c := range calls {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}
