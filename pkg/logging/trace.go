package logging

import "log/slog"

// EnableTrace turns on element-level keying logs: paddle contacts and key
// line edges.
var EnableTrace = false

// Trace logs msg at DEBUG when EnableTrace is set. A nil logger means the
// default logger.
func Trace(logger *slog.Logger, msg string, args ...any) {
	if !EnableTrace {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug(msg, append(args, "trace", true)...)
}
