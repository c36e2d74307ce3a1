package probe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"yackgo/pkg/config"
	"yackgo/pkg/store"
)

const pingKey = "probe.ping"

// StoreCheck verifies the state store round-trips a value.
func StoreCheck(st store.StateStore) CheckFunc {
	return func(ctx context.Context) error {
		want := strconv.FormatInt(time.Now().UnixNano(), 10)
		if err := st.SetState(ctx, pingKey, want); err != nil {
			return fmt.Errorf("write: %w", err)
		}
		got, ok := st.GetState(ctx, pingKey)
		if !ok || got != want {
			return errors.New("read back mismatch")
		}
		return st.DeleteState(ctx, pingKey)
	}
}

// MessagesCheck verifies the message table is readable.
func MessagesCheck(ms store.MessageStore) CheckFunc {
	return func(ctx context.Context) error {
		_, err := ms.ListMessages(ctx)
		return err
	}
}

// InputCheck verifies the configured input device is present.
func InputCheck(cfg *config.InputConfig, stdin *os.File) CheckFunc {
	return func(context.Context) error {
		switch cfg.Provider {
		case "serial":
			if cfg.Serial.Port == "" {
				return errors.New("no serial port configured")
			}
			if _, err := os.Stat(cfg.Serial.Port); err != nil {
				return err
			}
			return nil
		default:
			fi, err := stdin.Stat()
			if err != nil {
				return err
			}
			if fi.Mode()&os.ModeCharDevice == 0 {
				return errors.New("stdin is not a terminal")
			}
			return nil
		}
	}
}

// AudioCheck runs start, typically the sidetone's speaker initialisation.
func AudioCheck(start func() error) CheckFunc {
	return func(context.Context) error {
		return start()
	}
}
