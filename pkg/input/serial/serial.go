// Package serial talks to a paddle board over a serial line. The board sends
// decoded characters, control-key presses and contact changes as text lines
// and accepts T1/T0 to drive the transmitter key line.
package serial

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	goserial "go.bug.st/serial"

	"yackgo/pkg/config"
	"yackgo/pkg/input"
)

// Port implements input.Source and input.Transmitter.
type Port struct {
	mu     sync.Mutex
	conn   io.ReadWriteCloser
	events chan input.Event
	log    *slog.Logger
	closed bool
	keyed  bool
}

// Open opens the configured port and starts reading.
func Open(cfg config.SerialConfig, logger *slog.Logger) (*Port, error) {
	mode := &goserial.Mode{
		BaudRate: cfg.Baud,
		DataBits: 8,
		Parity:   goserial.NoParity,
		StopBits: goserial.OneStopBit,
	}
	conn, err := goserial.Open(cfg.Port, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Port, err)
	}
	p := New(conn, logger)
	p.log.Info("Serial paddle board connected", "port", cfg.Port, "baud", cfg.Baud)
	return p, nil
}

// New wraps an already open connection.
func New(conn io.ReadWriteCloser, logger *slog.Logger) *Port {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Port{
		conn:   conn,
		events: make(chan input.Event, 64),
		log:    logger,
	}
	go p.readLoop()
	return p
}

// Ports lists serial ports present on the system.
func Ports() ([]string, error) {
	return goserial.GetPortsList()
}

func (p *Port) readLoop() {
	defer close(p.events)
	err := input.Scan(p.conn, p.events, p.log)
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if err != nil && !closed {
		p.log.Error("Serial read failed", "error", err)
	}
}

func (p *Port) Events() <-chan input.Event { return p.events }

// Key sets the transmitter key line. Repeated states are not resent.
func (p *Port) Key(down bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return errors.New("serial port closed")
	}
	if p.keyed == down {
		return nil
	}
	if _, err := io.WriteString(p.conn, input.KeyLine(down)); err != nil {
		return fmt.Errorf("key line: %w", err)
	}
	p.keyed = down
	return nil
}

// Close releases the key line and the port.
func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	if p.keyed {
		_, _ = io.WriteString(p.conn, input.KeyLine(false))
		p.keyed = false
	}
	p.closed = true
	return p.conn.Close()
}
