package keyer

// Side identifies a paddle contact.
type Side int

const (
	Dit Side = iota
	Dah
)

func (s Side) String() string {
	if s == Dah {
		return "dah"
	}
	return "dit"
}

// Element is a single Morse element.
type Element int

const (
	ElementDit Element = iota
	ElementDah
)

func (e Element) String() string {
	if e == ElementDah {
		return "dah"
	}
	return "dit"
}

// Gap is a timed silence measured at the current speed.
type Gap int

const (
	GapElement   Gap = iota // between elements of one character
	GapCharacter            // between characters
	GapWord                 // between words
	GapAck                  // three dah lengths, inserted before acknowledgements
)

func (g Gap) String() string {
	switch g {
	case GapElement:
		return "element"
	case GapCharacter:
		return "character"
	case GapWord:
		return "word"
	case GapAck:
		return "ack"
	}
	return "unknown"
}

// Direction of a one-step adjustment.
type Direction int

const (
	Up Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Down {
		return "down"
	}
	return "up"
}

// Axis selects which speed parameter AdjustSpeed changes.
type Axis int

const (
	AxisNormal Axis = iota
	AxisFarnsworth
)

func (a Axis) String() string {
	if a == AxisFarnsworth {
		return "farnsworth"
	}
	return "normal"
}

// ModeVariant is the paddle keying mode.
type ModeVariant int

const (
	IambicA ModeVariant = iota
	IambicB
	Ultimatic
	DahPriority
)

func (v ModeVariant) String() string {
	switch v {
	case IambicA:
		return "iambic_a"
	case IambicB:
		return "iambic_b"
	case Ultimatic:
		return "ultimatic"
	case DahPriority:
		return "dah_priority"
	}
	return "unknown"
}

// ParseModeVariant is the inverse of ModeVariant.String.
func ParseModeVariant(s string) (ModeVariant, bool) {
	for v := IambicA; v <= DahPriority; v++ {
		if v.String() == s {
			return v, true
		}
	}
	return IambicA, false
}

// Flag is a persisted boolean setting.
type Flag int

const (
	PaddleSwap Flag = iota
	Sidetone
	TxKey
	TxInvert
	ConfLock
)

// Flags lists every flag in declaration order.
var Flags = []Flag{PaddleSwap, Sidetone, TxKey, TxInvert, ConfLock}

func (f Flag) String() string {
	switch f {
	case PaddleSwap:
		return "paddle_swap"
	case Sidetone:
		return "sidetone"
	case TxKey:
		return "tx_key"
	case TxInvert:
		return "tx_invert"
	case ConfLock:
		return "conf_lock"
	}
	return "unknown"
}

// MessageSlots is the number of message memories.
const MessageSlots = 4
