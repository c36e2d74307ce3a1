// Package keyer defines the contract between the command & mode layer and the
// keying engine underneath it. The engine owns element timing, paddle
// resolution, sidetone and key output, message memories and non-volatile
// settings; the control layer only ever calls the methods below.
//
// All calls are synchronous. Playback calls block until the sound has been
// produced. Everything else returns immediately.
package keyer

// Decoder hands decoded characters and paddle state to the control layer.
type Decoder interface {
	// DecodeChar returns the next decoded character or 0 if none is ready.
	DecodeChar() byte
	// WaitChar blocks until a character has been decoded.
	WaitChar() byte
	// Active reports that the operator is in the middle of forming a character.
	Active() bool
	// Contact reports the instantaneous state of one paddle contact,
	// bypassing debouncing and character decoding.
	Contact(side Side) bool
}

// Sounder produces audible (and, outside sidetone-only mode, keyed) output.
type Sounder interface {
	PlayChar(c byte)
	PlayString(s string)
	PlayElement(e Element)
	PlayNumber(n uint16)
	// Delay waits for the given gap at the current speed.
	Delay(g Gap)
	// FarnsworthPause waits for the configured extra inter-character pause.
	FarnsworthPause()
	// SoundError plays the error prosign.
	SoundError()
}

// Adjuster changes sound parameters by one step.
type Adjuster interface {
	// AdjustPitch raises (Up) or lowers (Down) the sidetone frequency.
	AdjustPitch(d Direction)
	// AdjustSpeed makes sending faster (Up) or slower (Down) on the given axis.
	// On AxisFarnsworth, slower means a longer inter-character pause.
	AdjustSpeed(d Direction, axis Axis)
	// WPM returns the current speed in words per minute.
	WPM() uint8
}

// Configurator reads and writes persisted keyer configuration.
type Configurator interface {
	SetMode(v ModeVariant)
	Toggle(f Flag)
	Flag(f Flag) bool
	// Save writes pending changes to non-volatile storage.
	Save() error
	// Reset restores factory defaults.
	Reset()
}

// Messages gives access to the numbered message memories.
type Messages interface {
	PlayMessage(slot int)
	// RecordMessage interactively records a message into slot.
	RecordMessage(slot int)
}

// Storage exposes user scalars in non-volatile storage.
type Storage interface {
	ReadUser(slot int) uint16
	WriteUser(slot int, v uint16) error
}

// Control exposes the dedicated control key.
type Control interface {
	// PeekControl reports a pending control-key press without consuming it.
	PeekControl() bool
	// TakeControl reports and consumes a pending control-key press.
	TakeControl() bool
}

// Timing drives the engine's internal state machines.
type Timing interface {
	// Beat advances the engine by one heartbeat tick. It must be called at
	// least once per polling iteration.
	Beat()
}

// Power controls the low-power sleep state.
type Power interface {
	InhibitSleep(inhibit bool)
}

// Output selects what the engine does with keyed characters.
type Output interface {
	// Inhibit switches sidetone-only operation on or off. While on, the
	// transmitter is never keyed.
	Inhibit(on bool)
	// Tune keys the transmitter continuously until the engine ends it.
	Tune()
}

// Engine is the full contract.
type Engine interface {
	Decoder
	Sounder
	Adjuster
	Configurator
	Messages
	Storage
	Control
	Timing
	Power
	Output
}
