// Package terminal reads operator input from a raw-mode keyboard. Keyed
// characters arrive already decoded; ',' and '.' pulse the dit and dah
// contacts for the adjustment loops.
package terminal

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/term"

	"yackgo/pkg/input"
	"yackgo/pkg/keyer"
	"yackgo/pkg/morse"
)

// ErrNotTerminal is returned when stdin is not a terminal.
var ErrNotTerminal = errors.New("not a terminal")

const (
	keyCtrlC = 0x03
	keyTab   = '\t'
	keyEsc   = 0x1b
)

// Source implements input.Source on a terminal in raw mode.
type Source struct {
	fd     int
	state  *term.State
	events chan input.Event
	log    *slog.Logger

	once sync.Once
}

// Open puts f into raw mode and starts reading keys.
func Open(f *os.File, logger *slog.Logger) (*Source, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNotTerminal
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to enter raw mode: %w", err)
	}

	s := &Source{
		fd:     fd,
		state:  state,
		events: make(chan input.Event, 64),
		log:    logger,
	}
	go s.read(f)
	logger.Info("Terminal input ready", "control", "Tab or Esc", "contacts", ", and .")
	return s, nil
}

func (s *Source) Events() <-chan input.Event { return s.events }

// Close restores the terminal.
func (s *Source) Close() error {
	var err error
	s.once.Do(func() {
		err = term.Restore(s.fd, s.state)
	})
	return err
}

func (s *Source) read(r io.Reader) {
	defer close(s.events)
	buf := make([]byte, 1)
	for {
		if _, err := r.Read(buf); err != nil {
			s.log.Debug("Terminal input closed", "error", err)
			return
		}
		if buf[0] == keyCtrlC {
			s.log.Info("Ctrl-C pressed")
			_ = s.Close()
			return
		}
		for _, ev := range Translate(buf[0]) {
			s.events <- ev
		}
	}
}

// Translate maps one key to input events. Unmapped keys produce none.
func Translate(b byte) []input.Event {
	switch b {
	case keyTab, keyEsc:
		return []input.Event{{Kind: input.Control}}
	case ',':
		return pulse(keyer.Dit)
	case '.':
		return pulse(keyer.Dah)
	case ' ':
		return []input.Event{{Kind: input.Char, Char: ' '}}
	}
	if b >= 'a' && b <= 'z' {
		b = b - 'a' + 'A'
	}
	if _, ok := morse.Encode(b); ok {
		return []input.Event{{Kind: input.Char, Char: b}}
	}
	return nil
}

// pulse is a momentary press of one contact.
func pulse(side keyer.Side) []input.Event {
	return []input.Event{
		{Kind: input.Contact, Side: side, Down: true},
		{Kind: input.Contact, Side: side},
	}
}
