// Package input defines operator input events and the sources that produce
// them: a raw terminal keyboard and a serial paddle board.
package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"yackgo/pkg/keyer"
)

// ErrUnknownLine is returned by ParseLine for lines outside the protocol.
var ErrUnknownLine = errors.New("unknown input line")

// Kind of input event.
type Kind int

const (
	Char    Kind = iota // a decoded character
	Control             // the control key
	Contact             // a paddle contact changed state
)

func (k Kind) String() string {
	switch k {
	case Char:
		return "char"
	case Control:
		return "control"
	case Contact:
		return "contact"
	}
	return "unknown"
}

// Event is one operator action.
type Event struct {
	Kind Kind
	Char byte
	Side keyer.Side
	Down bool
}

// Source produces events until it is closed or its device goes away, then
// closes the channel.
type Source interface {
	Events() <-chan Event
	Close() error
}

// Transmitter drives the transmitter key line.
type Transmitter interface {
	Key(down bool) error
}

// ParseLine decodes one line of the paddle-board protocol:
//
//	C <ch>   decoded character
//	K        control key
//	D 0|1    dit contact open/closed
//	H 0|1    dah contact open/closed
func ParseLine(line string) (Event, error) {
	line = strings.TrimRight(line, "\r\n")
	switch {
	case line == "K":
		return Event{Kind: Control}, nil
	case len(line) == 3 && line[0] == 'C' && line[1] == ' ':
		return Event{Kind: Char, Char: upper(line[2])}, nil
	case len(line) == 3 && (line[0] == 'D' || line[0] == 'H') && line[1] == ' ':
		side := keyer.Dit
		if line[0] == 'H' {
			side = keyer.Dah
		}
		switch line[2] {
		case '0':
			return Event{Kind: Contact, Side: side}, nil
		case '1':
			return Event{Kind: Contact, Side: side, Down: true}, nil
		}
	}
	return Event{}, fmt.Errorf("%w: %q", ErrUnknownLine, line)
}

// KeyLine is the outbound command that sets the key line.
func KeyLine(down bool) string {
	if down {
		return "T1\n"
	}
	return "T0\n"
}

// Scan parses protocol lines from r into out until r fails or ends.
// Unknown lines are logged and skipped.
func Scan(r io.Reader, out chan<- Event, logger *slog.Logger) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		ev, err := ParseLine(line)
		if err != nil {
			logger.Warn("Ignoring input line", "error", err)
			continue
		}
		out <- ev
	}
	return sc.Err()
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
