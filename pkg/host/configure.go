package host

import (
	"fmt"

	"yackgo/pkg/keyer"
)

// --- Adjuster ---

func (e *Engine) AdjustPitch(d keyer.Direction) {
	if !e.set.AdjustPitch(d) {
		e.log.Debug("Pitch at limit", "pitch", e.set.Pitch())
		return
	}
	if err := e.tone.SetPitch(e.set.Pitch()); err != nil {
		e.log.Warn("Failed to set sidetone pitch", "error", err)
	}
}

func (e *Engine) AdjustSpeed(d keyer.Direction, axis keyer.Axis) {
	var ok bool
	switch axis {
	case keyer.AxisFarnsworth:
		ok = e.set.AdjustFarnsworth(d)
	default:
		ok = e.set.AdjustWPM(d)
	}
	if !ok {
		e.log.Debug("Speed at limit", "axis", axis, "wpm", e.set.WPM(), "farnsworth", e.set.Farnsworth())
	}
}

func (e *Engine) WPM() uint8 {
	return uint8(e.set.WPM())
}

// --- Configurator ---

func (e *Engine) SetMode(v keyer.ModeVariant) {
	e.set.SetMode(v)
	e.log.Info("Keyer mode", "mode", v)
}

func (e *Engine) Toggle(f keyer.Flag) {
	on := e.set.Toggle(f)
	e.log.Info("Flag toggled", "flag", f, "on", on)
	if f == keyer.TxInvert || f == keyer.TxKey {
		e.releaseLine()
	}
}

func (e *Engine) Flag(f keyer.Flag) bool {
	return e.set.Flag(f)
}

// Save persists pending setting changes.
func (e *Engine) Save() error {
	if err := e.set.Save(e.ctx); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Reset restores factory defaults and saves them.
func (e *Engine) Reset() {
	e.set.Reset()
	if err := e.tone.SetPitch(e.set.Pitch()); err != nil {
		e.log.Warn("Failed to set sidetone pitch", "error", err)
	}
	e.releaseLine()
	if err := e.Save(); err != nil {
		e.log.Warn("Failed to save defaults", "error", err)
	}
}
