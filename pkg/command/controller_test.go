package command

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yackgo/pkg/keyer"
	"yackgo/pkg/keyer/keyertest"
	"yackgo/pkg/lfsr"
	"yackgo/pkg/metrics"
	"yackgo/pkg/session"
)

// stubs records which sub-modes were entered and the session mode seen there.
type stubs struct {
	sess  *session.Context
	calls []string
	modes []session.Mode
}

func (s *stubs) enter(name string) session.Exit {
	s.calls = append(s.calls, name)
	s.modes = append(s.modes, s.sess.Mode())
	return session.ExitDone
}

func (s *stubs) Pitch() session.Exit      { return s.enter("pitch") }
func (s *stubs) Farnsworth() session.Exit { return s.enter("farnsworth") }
func (s *stubs) Run() session.Exit        { return s.enter("trainer") }
func (s *stubs) Record() session.Exit     { return s.enter("beacon") }

// newController runs at 10 ticks per second: the idle timeout is 10 polls and
// the macro timeout 5 polls.
func newController(eng *keyertest.Engine) (*Controller, *stubs, *session.Context) {
	sess := session.New(session.Options{TickRate: 10, Metrics: metrics.New()})
	st := &stubs{sess: sess}
	c := New(eng, sess, st, st, st, Options{
		IdleTimeout:  time.Second,
		MacroTimeout: 500 * time.Millisecond,
	})
	return c, st, sess
}

func TestRun_IdleTimeout(t *testing.T) {
	eng := keyertest.New()
	c, _, sess := newController(eng)

	exit := c.Run()

	assert.Equal(t, session.ExitTimeout, exit)
	assert.Equal(t, 10, eng.Polls)
	assert.Equal(t, 10, eng.Beats)
	assert.Equal(t, []string{"inhibit on", "char ?", "char #", "inhibit off"}, eng.Calls)
	assert.False(t, eng.Inhibited)
	assert.Equal(t, session.Normal, sess.Mode())
}

func TestRun_CharacterResetsIdleTimeout(t *testing.T) {
	eng := keyertest.New(0, 0, 0, 0, 0, 'V')
	c, _, _ := newController(eng)

	c.Run()

	assert.Equal(t, 6+10, eng.Polls)
}

func TestRun_StirsGeneratorEveryPoll(t *testing.T) {
	eng := keyertest.New()
	c, _, sess := newController(eng)

	c.Run()

	want := lfsr.New(0)
	for i := 0; i < eng.Polls; i++ {
		want.Stir()
	}
	assert.Equal(t, want.State(), sess.Rand.State())
}

func TestRun_ControlKeyExits(t *testing.T) {
	eng := keyertest.New()
	eng.OnPoll = func(e *keyertest.Engine) {
		if e.Polls == 3 {
			e.PressControl()
		}
	}
	c, _, _ := newController(eng)

	exit := c.Run()

	assert.Equal(t, session.ExitInterrupt, exit)
	assert.Equal(t, 3, eng.Polls)
	assert.Equal(t, "char #", eng.Calls[len(eng.Calls)-2])
	assert.False(t, eng.ControlPending())
}

func TestDispatch_Acknowledged(t *testing.T) {
	tests := []struct {
		name   string
		input  byte
		action []string
		check  func(t *testing.T, eng *keyertest.Engine, st *stubs)
	}{
		{"Reset", 'R', []string{"reset"}, nil},
		{"IambicA", 'A', []string{"mode iambic_a"}, nil},
		{"IambicB", 'B', []string{"mode iambic_b"}, func(t *testing.T, eng *keyertest.Engine, _ *stubs) {
			assert.Equal(t, keyer.IambicB, eng.Mode)
		}},
		{"Ultimatic", 'L', []string{"mode ultimatic"}, nil},
		{"DahPriority", 'D', []string{"mode dah_priority"}, nil},
		{"PaddleSwap", 'X', []string{"toggle paddle_swap"}, nil},
		{"Sidetone", 'S', []string{"toggle sidetone"}, func(t *testing.T, eng *keyertest.Engine, _ *stubs) {
			assert.False(t, eng.Flags[keyer.Sidetone])
		}},
		{"TxKey", 'K', []string{"toggle tx_key"}, nil},
		{"TxInvert", 'F', []string{"toggle tx_invert"}, nil},
		{"RecordMacro", '3', []string{"char 3", "record 3"}, nil},
		{"Version", 'V', []string{"string V0.87"}, nil},
		{"Speed", 'W', []string{"number 20"}, nil},
		{"Tune", 'U', []string{"tune"}, nil},
		{"Lock", '0', []string{"toggle conf_lock"}, func(t *testing.T, eng *keyertest.Engine, _ *stubs) {
			assert.True(t, eng.Flags[keyer.ConfLock])
		}},
		{"Farnsworth", 'Z', nil, func(t *testing.T, _ *keyertest.Engine, st *stubs) {
			assert.Equal(t, []string{"farnsworth"}, st.calls)
		}},
		{"Beacon", 'N', nil, func(t *testing.T, _ *keyertest.Engine, st *stubs) {
			assert.Equal(t, []string{"beacon"}, st.calls)
		}},
		{"Pitch", 'P', nil, func(t *testing.T, _ *keyertest.Engine, st *stubs) {
			assert.Equal(t, []string{"pitch"}, st.calls)
		}},
		{"Trainer", 'C', nil, func(t *testing.T, _ *keyertest.Engine, st *stubs) {
			assert.Equal(t, []string{"trainer"}, st.calls)
			assert.Equal(t, []session.Mode{session.Command}, st.modes)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := keyertest.New(tt.input)
			c, st, _ := newController(eng)

			c.Run()

			want := []string{"inhibit on", "char ?"}
			want = append(want, tt.action...)
			want = append(want, "save", "delay ack", "string R", "char #", "inhibit off")
			assert.Equal(t, want, eng.Calls)
			if tt.check != nil {
				tt.check(t, eng, st)
			}
		})
	}
}

func TestDispatch_MacroPlaybackKeysWithoutAck(t *testing.T) {
	for i, ch := range []byte{'E', 'I', 'T', 'M'} {
		t.Run(string(ch), func(t *testing.T) {
			eng := keyertest.New(ch)
			var inhibitedDuringPlay []bool
			eng.OnPlay = func(e *keyertest.Engine, call string) {
				if strings.HasPrefix(call, "play ") {
					inhibitedDuringPlay = append(inhibitedDuringPlay, e.Inhibited)
				}
			}
			c, _, _ := newController(eng)

			c.Run()

			// Playback keys the transmitter, then command mode goes back to
			// sidetone only.
			assert.Equal(t, []string{
				"inhibit on", "char ?",
				"inhibit off", "play " + string(rune('1'+i)), "inhibit on",
				"char #", "inhibit off",
			}, eng.Calls)
			assert.Equal(t, []bool{false}, inhibitedDuringPlay)
			assert.Equal(t, 0, eng.Saves)
			// The shorter post-playback timeout replaces the idle timeout.
			assert.Equal(t, 1+5, eng.Polls)
		})
	}
}

func TestDispatch_Unmatched(t *testing.T) {
	eng := keyertest.New('Q')
	c, _, _ := newController(eng)

	c.Run()

	assert.Equal(t, []string{"inhibit on", "char ?", "error", "char #", "inhibit off"}, eng.Calls)
	assert.Equal(t, 0, eng.Saves)
}

func TestDispatch_LockedConfigurationIgnored(t *testing.T) {
	eng := keyertest.New('B', 'S', '2', 'Z', 'V')
	eng.Flags[keyer.ConfLock] = true
	c, st, sess := newController(eng)

	c.Run()

	assert.Equal(t, []string{
		"inhibit on", "char ?",
		"string V0.87", "save", "delay ack", "string R",
		"char #", "inhibit off",
	}, eng.Calls)
	assert.Equal(t, keyer.ModeVariant(0), eng.Mode)
	assert.True(t, eng.Flags[keyer.Sidetone])
	assert.Empty(t, st.calls)
	assert.Equal(t, 0, eng.Count("error"))

	n, err := testutil.GatherAndCount(sess.Metrics.Registry(), "yackgo_commands_total")
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestDispatch_UnlockWhileLocked(t *testing.T) {
	eng := keyertest.New('0', 'B')
	eng.Flags[keyer.ConfLock] = true
	c, _, _ := newController(eng)

	c.Run()

	assert.False(t, eng.Flags[keyer.ConfLock])
	assert.Equal(t, keyer.IambicB, eng.Mode)
	assert.Equal(t, 2, eng.Saves)
}

func TestDispatch_UnknownWhileLocked(t *testing.T) {
	eng := keyertest.New('Q')
	eng.Flags[keyer.ConfLock] = true
	c, _, _ := newController(eng)

	c.Run()

	assert.Equal(t, 1, eng.Count("error"))
}

func TestOutcomeStrings(t *testing.T) {
	assert.Equal(t, "unhandled", Unhandled.String())
	assert.Equal(t, "ack", Acknowledge.String())
	assert.Equal(t, "silent", Silent.String())
}
