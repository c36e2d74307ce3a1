package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// StateStore handles persistent key/value state: keyer settings and user scalars.
type StateStore interface {
	GetState(ctx context.Context, key string) (string, bool)
	SetState(ctx context.Context, key, val string) error
	DeleteState(ctx context.Context, key string) error
}

// Message is one stored message memory.
type Message struct {
	Slot   int
	Text   string
	Source string // "keyed" or "import"
}

// MessageStore handles the numbered message memories.
type MessageStore interface {
	GetMessage(ctx context.Context, slot int) (*Message, error)
	SaveMessage(ctx context.Context, msg *Message) error
	ListMessages(ctx context.Context) ([]*Message, error)
}

// Store composes all sub-interfaces for full store access.
// Consumers should depend on specific sub-interfaces when possible.
type Store interface {
	StateStore
	MessageStore

	// Close closes the store connection.
	Close() error
}
