package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"yackgo/pkg/config"
)

// transcriptPath is the path to the transcript file.
var transcriptPath string

// transcriptMu protects concurrent writes to the transcript.
var transcriptMu sync.Mutex

// Init initializes the logging system based on configuration.
// It returns a cleanup function to close log files.
func Init(cfg *config.LogConfig) (func(), error) {
	// Rotate log files at startup
	rotatePaths(cfg.Server.Path, cfg.Transcript.Path)

	SetTranscriptPath(cfg.Transcript.Path)
	EnableTrace = cfg.Trace

	var closers []io.Closer

	// Server Logger (Stdout + File)
	serverHandler, file, err := setupHandler(cfg.Server.Path, cfg.Server.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to setup server logger: %w", err)
	}
	if file != nil {
		closers = append(closers, file)
	}
	slog.SetDefault(slog.New(serverHandler))

	return func() {
		for _, c := range closers {
			c.Close()
		}
	}, nil
}

// console receives INFO and up; tests swap it out.
var console io.Writer = consoleWriter{os.Stderr}

func setupHandler(path, levelStr string) (handler slog.Handler, file *os.File, err error) {
	level := parseLevel(levelStr)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	// Append; rotation happens in Init.
	file, err = os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(file, &slog.HandlerOptions{
			Level:     level,
			AddSource: level <= slog.LevelDebug,
		}),
		slog.NewTextHandler(console, &slog.HandlerOptions{
			Level: max(level, slog.LevelInfo),
		}),
		slog.NewTextHandler(GlobalLogCapture, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}),
	}
	return &multiHandler{handlers: handlers}, file, nil
}

// parseLevel accepts slog level names in any case, with offsets such as
// "DEBUG-4". Anything else is INFO.
func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// consoleWriter ends lines with CRLF so they stay aligned while the paddle
// terminal is in raw mode.
type consoleWriter struct {
	w io.Writer
}

func (c consoleWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}

type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle implements slog.Handler
// nolint:gocritic // r must be passed by value to implement slog.Handler
func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: newHandlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: newHandlers}
}

// rotatePaths rotates the given log files if they exist by renaming them to .old.
// This is called at the start of Init to ensure logs are fresh each run but previous logs are kept.
func rotatePaths(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		dir := filepath.Dir(p)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			continue
		}

		// If file exists, rotate it
		if _, err := os.Stat(p); err == nil {
			oldPath := p + ".old"
			// Remove existing .old if present
			_ = os.Remove(oldPath)
			// Rename current to .old
			_ = os.Rename(p, oldPath)
		}
	}
}

// SetTranscriptPath configures the path for the transcript file.
func SetTranscriptPath(path string) {
	transcriptMu.Lock()
	defer transcriptMu.Unlock()
	transcriptPath = path
}

// LogTranscript appends one line of keyed text to the transcript.
// kind is "rx" for what the operator sent and "tx" for what the keyer played.
func LogTranscript(kind, text string) {
	transcriptMu.Lock()
	defer transcriptMu.Unlock()

	if transcriptPath == "" || text == "" {
		return
	}

	if err := os.MkdirAll(filepath.Dir(transcriptPath), 0o755); err != nil {
		slog.Error("failed to create transcript directory", "error", err)
		return
	}

	f, err := os.OpenFile(transcriptPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		slog.Error("failed to open transcript", "error", err)
		return
	}
	defer f.Close()

	// Format: [2006-01-02 15:04:05] [rx] CQ CQ
	line := fmt.Sprintf("[%s] [%s] %s\n", time.Now().Format("2006-01-02 15:04:05"), kind, text)
	if _, err := f.WriteString(line); err != nil {
		slog.Error("failed to write transcript", "error", err)
	}

	_, _ = GlobalTranscriptCapture.Write([]byte(strings.TrimSpace(line)))
}
