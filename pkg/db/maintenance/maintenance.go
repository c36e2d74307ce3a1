package maintenance

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"yackgo/pkg/keyer"
	"yackgo/pkg/morse"
	"yackgo/pkg/store"
)

const messagesStateKey = "messages_csv_mtime"

// Run executes startup maintenance: importing preset messages from a CSV file.
// Import failures are logged; they never stop startup.
func Run(ctx context.Context, s store.Store, csvPath string) error {
	if csvPath == "" {
		return nil
	}
	slog.Info("Starting database maintenance...")

	if err := importMessages(ctx, s, csvPath); err != nil {
		slog.Error("Message import failed", "error", err)
	} else {
		slog.Info("Message import check completed")
	}

	return nil
}

// importMessages loads Slot,Text rows into the message memories when the file
// changed since the last import.
func importMessages(ctx context.Context, s store.Store, csvPath string) error {
	info, err := os.Stat(csvPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat csv: %w", err)
	}

	fileMTime := info.ModTime().UTC().Format(time.RFC3339)

	storedMTime, found := s.GetState(ctx, messagesStateKey)
	if found && storedMTime == fileMTime {
		return nil
	}

	slog.Info("Importing messages from CSV...", "path", csvPath)

	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)

	headers, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	// Strip a UTF-8 BOM.
	if len(headers) > 0 && strings.HasPrefix(headers[0], "\xef\xbb\xbf") {
		headers[0] = headers[0][3:]
	}

	idxMap := make(map[string]int)
	for i, h := range headers {
		idxMap[strings.TrimSpace(h)] = i
	}

	count, err := processRows(ctx, s, reader, idxMap)
	if err != nil {
		return err
	}

	slog.Info("Imported messages", "count", count)

	if err := s.SetState(ctx, messagesStateKey, fileMTime); err != nil {
		return fmt.Errorf("failed to update state: %w", err)
	}

	return nil
}

func processRows(ctx context.Context, s store.Store, reader *csv.Reader, idxMap map[string]int) (int, error) {
	get := func(row []string, col string) string {
		if i, ok := idxMap[col]; ok && i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	count := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("csv read error: %w", err)
		}

		slot, err := strconv.Atoi(get(record, "Slot"))
		if err != nil || slot < 1 || slot > keyer.MessageSlots {
			slog.Warn("Skipping message row with bad slot", "slot", get(record, "Slot"))
			continue
		}
		text, dropped := keyable(get(record, "Text"))
		if dropped > 0 {
			slog.Warn("Dropped characters without a Morse code", "slot", slot, "dropped", dropped)
		}

		if err := s.SaveMessage(ctx, &store.Message{Slot: slot, Text: text, Source: "import"}); err != nil {
			return count, fmt.Errorf("failed to save slot %d: %w", slot, err)
		}
		count++
	}
	return count, nil
}

// keyable upper-cases text and drops characters that cannot be sent.
func keyable(text string) (string, int) {
	var b strings.Builder
	dropped := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		if _, ok := morse.Encode(c); ok || c == ' ' {
			b.WriteByte(c)
			continue
		}
		dropped++
	}
	return b.String(), dropped
}
