// Package probe runs the startup checks the keyer needs before it comes up:
// storage, the input device and the sidetone.
package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// CheckFunc returns nil when the check passes.
type CheckFunc func(ctx context.Context) error

// Probe represents a single startup check.
type Probe struct {
	Name     string
	Check    CheckFunc
	Critical bool          // a failure prevents startup
	Timeout  time.Duration // zero means DefaultTimeout
}

// Result holds the outcome of a single probe.
type Result struct {
	Probe    Probe
	Error    error
	Duration time.Duration
	Skipped  bool // not run because an earlier critical probe failed
}

// DefaultTimeout bounds each check.
const DefaultTimeout = 5 * time.Second

// ErrSkipped marks probes that did not run.
var ErrSkipped = errors.New("skipped")

// Run executes the probes in order. Once a critical probe fails the remaining
// probes are reported as skipped.
func Run(ctx context.Context, probes []Probe) []Result {
	results := make([]Result, len(probes))
	failed := false

	for i, p := range probes {
		results[i].Probe = p
		if failed || ctx.Err() != nil {
			results[i].Skipped = true
			results[i].Error = ErrSkipped
			continue
		}

		timeout := p.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		checkCtx, cancel := context.WithTimeout(ctx, timeout)
		start := time.Now()
		err := p.Check(checkCtx)
		cancel()

		results[i].Error = err
		results[i].Duration = time.Since(start)
		failed = err != nil && p.Critical
	}
	return results
}

// AnalyzeResults logs one line per probe and returns the joined errors of the
// critical probes that failed or were skipped.
func AnalyzeResults(logger *slog.Logger, results []Result) error {
	if logger == nil {
		logger = slog.Default()
	}
	var errs []error
	passed := 0

	for _, r := range results {
		switch {
		case r.Skipped:
			logger.Warn(fmt.Sprintf("[SKIP] %-20s", r.Probe.Name))
		case r.Error != nil:
			logger.Error(fmt.Sprintf("[FAIL] %-20s (%v)", r.Probe.Name, r.Duration.Round(time.Millisecond)), "error", r.Error)
		default:
			passed++
			logger.Info(fmt.Sprintf("[PASS] %-20s (%v)", r.Probe.Name, r.Duration.Round(time.Millisecond)))
			continue
		}
		if r.Probe.Critical {
			errs = append(errs, fmt.Errorf("%s: %w", r.Probe.Name, r.Error))
		}
	}

	logger.Info("Startup checks done", "passed", passed, "total", len(results))
	return errors.Join(errs...)
}
