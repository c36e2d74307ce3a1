package session

// Mode is the active session mode. Exactly one is active at a time; Command is
// the super-state every other mode except Normal returns to.
type Mode int

const (
	Normal Mode = iota
	Command
	Training
	BeaconRecord
	PitchAdjust
	FarnsworthAdjust
	Tune
)

func (m Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case Command:
		return "command"
	case Training:
		return "training"
	case BeaconRecord:
		return "beacon_record"
	case PitchAdjust:
		return "pitch_adjust"
	case FarnsworthAdjust:
		return "farnsworth_adjust"
	case Tune:
		return "tune"
	}
	return "unknown"
}

// Exit is why a mode loop returned.
type Exit int

const (
	// ExitDone means the loop ran to completion (converged, captured, ...).
	ExitDone Exit = iota
	// ExitTimeout means an idle or response timer ran out.
	ExitTimeout
	// ExitInterrupt means the control key was pressed.
	ExitInterrupt
)

func (e Exit) String() string {
	switch e {
	case ExitDone:
		return "done"
	case ExitTimeout:
		return "timeout"
	case ExitInterrupt:
		return "interrupt"
	}
	return "unknown"
}
