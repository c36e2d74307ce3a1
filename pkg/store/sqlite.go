package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"yackgo/pkg/db"
)

// SQLiteStore implements Store.
type SQLiteStore struct {
	db *db.DB
}

// NewSQLiteStore creates a new store.
func NewSQLiteStore(db *db.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- State ---

func (s *SQLiteStore) GetState(ctx context.Context, key string) (string, bool) {
	var val string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM persistent_state WHERE key = ?", key).Scan(&val)
	if err != nil {
		return "", false
	}
	return val, true
}

func (s *SQLiteStore) SetState(ctx context.Context, key, val string) error {
	query := `INSERT OR REPLACE INTO persistent_state (key, value, created_at) VALUES (?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query, key, val, time.Now())
	return err
}

func (s *SQLiteStore) DeleteState(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM persistent_state WHERE key = ?", key)
	return err
}

// --- Messages ---

func (s *SQLiteStore) GetMessage(ctx context.Context, slot int) (*Message, error) {
	m := &Message{Slot: slot}
	err := s.db.QueryRowContext(ctx, "SELECT text, source FROM messages WHERE slot = ?", slot).Scan(&m.Text, &m.Source)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get message %d: %w", slot, err)
	}
	return m, nil
}

func (s *SQLiteStore) SaveMessage(ctx context.Context, msg *Message) error {
	source := msg.Source
	if source == "" {
		source = "keyed"
	}
	query := `INSERT OR REPLACE INTO messages (slot, text, source, created_at) VALUES (?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, msg.Slot, msg.Text, source, time.Now()); err != nil {
		return fmt.Errorf("save message %d: %w", msg.Slot, err)
	}
	return nil
}

func (s *SQLiteStore) ListMessages(ctx context.Context) ([]*Message, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT slot, text, source FROM messages ORDER BY slot")
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var out []*Message
	for rows.Next() {
		m := &Message{}
		if err := rows.Scan(&m.Slot, &m.Text, &m.Source); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
