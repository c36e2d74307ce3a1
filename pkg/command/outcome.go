package command

// Outcome is the result of looking a character up in one command table.
type Outcome int

const (
	// Unhandled means the table has no entry for the character.
	Unhandled Outcome = iota
	// Acknowledge means the command ran and wants the save-and-acknowledge tail.
	Acknowledge
	// Silent means the command ran and must not be acknowledged.
	Silent
)

func (o Outcome) String() string {
	switch o {
	case Acknowledge:
		return "ack"
	case Silent:
		return "silent"
	}
	return "unhandled"
}

// table maps command characters to their actions.
type table map[byte]func() Outcome

func (t table) dispatch(c byte) Outcome {
	if act, ok := t[c]; ok {
		return act()
	}
	return Unhandled
}
