package host

import (
	"errors"
	"strconv"
	"strings"

	"yackgo/pkg/config"
	"yackgo/pkg/keyer"
	"yackgo/pkg/logging"
	"yackgo/pkg/session"
	"yackgo/pkg/store"
)

// --- Messages ---

// PlayMessage keys the text of slot. A control-key press stops playback
// and is left pending for the caller.
func (e *Engine) PlayMessage(slot int) {
	msg, err := e.st.GetMessage(e.ctx, slot)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			e.log.Warn("Failed to load message", "slot", slot, "error", err)
		}
		e.log.Debug("Empty message slot", "slot", slot)
		return
	}

	logging.LogTranscript("tx", msg.Text)
	for i := 0; i < len(msg.Text); i++ {
		if e.PeekControl() {
			e.log.Debug("Message playback interrupted", "slot", slot, "at", i)
			return
		}
		e.playChar(msg.Text[i], !e.inhibited)
		if msg.Text[i] != ' ' {
			e.FarnsworthPause()
		}
	}
}

// RecordMessage collects decoded characters into slot until the operator has
// been idle for the message timeout. A control-key press aborts and leaves
// the slot unchanged.
func (e *Engine) RecordMessage(slot int) {
	if slot < 1 || slot > keyer.MessageSlots {
		e.log.Warn("Invalid message slot", "slot", slot)
		return
	}

	var text strings.Builder
	var timer session.Countdown
	idle := uint32(e.ticks(e.opts.MessageTimeout))
	timer.Arm(idle)
	for !timer.Expired() {
		if e.TakeControl() {
			e.log.Info("Message recording aborted", "slot", slot)
			return
		}
		ch := e.DecodeChar()
		e.Beat()
		if ch == 0 && !e.Active() {
			timer.Tick()
			continue
		}
		if ch != 0 {
			text.WriteByte(ch)
		}
		timer.Arm(idle)
	}

	body := strings.TrimSpace(text.String())
	if body == "" {
		e.log.Info("Nothing recorded", "slot", slot)
		return
	}
	if err := e.st.SaveMessage(e.ctx, &store.Message{Slot: slot, Text: body, Source: "keyed"}); err != nil {
		e.log.Warn("Failed to save message", "slot", slot, "error", err)
		return
	}
	e.log.Info("Message recorded", "slot", slot, "text", body)
}

// --- Storage ---

func userKey(slot int) string {
	return config.KeyUserPrefix + strconv.Itoa(slot)
}

// ReadUser returns a user scalar; a missing or unreadable slot reads as 0.
func (e *Engine) ReadUser(slot int) uint16 {
	val, ok := e.st.GetState(e.ctx, userKey(slot))
	if !ok {
		return 0
	}
	n, err := strconv.ParseUint(val, 10, 16)
	if err != nil {
		e.log.Warn("Bad user scalar", "slot", slot, "value", val)
		return 0
	}
	return uint16(n)
}

func (e *Engine) WriteUser(slot int, v uint16) error {
	return e.st.SetState(e.ctx, userKey(slot), strconv.Itoa(int(v)))
}
