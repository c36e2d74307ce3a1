package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yackgo/pkg/config"
	"yackgo/pkg/keyer"
	"yackgo/pkg/settings"
	"yackgo/pkg/store"
)

func TestRecordMessage(t *testing.T) {
	r := newRig(t, char('C'), char('Q'), char(' '))
	r.eng.Inhibit(true)

	r.eng.RecordMessage(2)

	require.Contains(t, r.st.msgs, 2)
	assert.Equal(t, &store.Message{Slot: 2, Text: "CQ", Source: "keyed"}, r.st.msgs[2])
	// Three characters, then the five-tick idle timeout.
	assert.Equal(t, 3+5, r.clk.Ticks())
}

func TestRecordMessage_ControlAborts(t *testing.T) {
	r := newRig(t, char('D'), control)
	r.st.msgs[3] = &store.Message{Slot: 3, Text: "OLD"}

	r.eng.RecordMessage(3)

	assert.Equal(t, "OLD", r.st.msgs[3].Text)
	assert.False(t, r.eng.PeekControl(), "the press is consumed")
}

func TestRecordMessage_NothingKeyed(t *testing.T) {
	r := newRig(t)
	r.st.msgs[4] = &store.Message{Slot: 4, Text: "QRL?"}

	r.eng.RecordMessage(4)

	assert.Equal(t, "QRL?", r.st.msgs[4].Text)
	assert.Equal(t, 5, r.clk.Ticks())
}

func TestRecordMessage_InvalidSlot(t *testing.T) {
	r := newRig(t, char('C'))
	r.eng.RecordMessage(9)
	assert.Empty(t, r.st.msgs)
	assert.Equal(t, 0, r.clk.Ticks())
}

func TestPlayMessage(t *testing.T) {
	r := newRig(t)
	r.st.msgs[1] = &store.Message{Slot: 1, Text: "TT T"}
	r.eng.AdjustSpeed(keyer.Down, keyer.AxisFarnsworth)

	r.eng.PlayMessage(1)

	assert.Equal(t, 3, r.tone.ons)
	// Farnsworth pause after each character but not after the space.
	farnsworth := 0
	for _, d := range r.clk.Sleeps() {
		if d == settings.FarnsworthStep {
			farnsworth++
		}
	}
	assert.Equal(t, 3, farnsworth)
}

func TestPlayMessage_EmptySlot(t *testing.T) {
	r := newRig(t)
	r.eng.PlayMessage(3)
	assert.Empty(t, r.clk.Sleeps())
}

func TestPlayMessage_ControlStops(t *testing.T) {
	r := newRig(t)
	r.st.msgs[4] = &store.Message{Slot: 4, Text: "CQ CQ"}
	r.events <- control

	r.eng.PlayMessage(4)

	assert.Equal(t, 0, r.tone.ons)
	assert.True(t, r.eng.TakeControl(), "the press is left for the caller")
}

func TestUserScalars(t *testing.T) {
	r := newRig(t)

	assert.Equal(t, uint16(0), r.eng.ReadUser(1), "missing slot reads as 0")

	require.NoError(t, r.eng.WriteUser(1, 1234))
	assert.Equal(t, "1234", r.st.state[config.KeyUserPrefix+"1"])
	assert.Equal(t, uint16(1234), r.eng.ReadUser(1))

	r.st.state[config.KeyUserPrefix+"2"] = "70000"
	assert.Equal(t, uint16(0), r.eng.ReadUser(2))
}

func TestSaveAndReset(t *testing.T) {
	r := newRig(t)

	r.eng.SetMode(keyer.Ultimatic)
	r.eng.Toggle(keyer.ConfLock)
	r.eng.AdjustPitch(keyer.Up)
	assert.Equal(t, 720.0, r.tone.pitch)
	require.NoError(t, r.eng.Save())
	assert.Equal(t, "ultimatic", r.st.state[config.KeyMode])
	assert.Equal(t, "true", r.st.state[config.KeyConfLock])
	assert.True(t, r.eng.Flag(keyer.ConfLock))

	r.eng.Reset()

	assert.False(t, r.eng.Flag(keyer.ConfLock))
	assert.Equal(t, 700.0, r.tone.pitch)
	assert.Equal(t, "iambic_b", r.st.state[config.KeyMode])
	assert.Equal(t, "false", r.st.state[config.KeyConfLock])
}

func TestAdjustPitch_Limit(t *testing.T) {
	r := newRig(t)
	for i := 0; i < 50; i++ {
		r.eng.AdjustPitch(keyer.Down)
	}
	assert.Equal(t, 400.0, r.tone.pitch)
}
