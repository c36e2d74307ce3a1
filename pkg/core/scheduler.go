// Package core runs the keyer's outer loop: it keys normally, enters command
// mode on the control key and drives per-heartbeat jobs such as the beacon.
package core

import (
	"context"
	"log/slog"

	"yackgo/pkg/keyer"
	"yackgo/pkg/session"
)

// startupGreeting is sent in sidetone-only mode when the keyer comes up.
const startupGreeting = "73"

// Job is serviced once per heartbeat.
type Job interface {
	Name() string
	Tick()
}

// CommandMode is entered when the control key is pressed.
type CommandMode interface {
	Run() session.Exit
}

// Engine is the part of keyer.Engine the outer loop uses.
type Engine interface {
	keyer.Control
	keyer.Timing
	keyer.Output
	PlayString(s string)
	DecodeChar() byte
}

// Scheduler owns the heartbeat and the registered jobs.
type Scheduler struct {
	eng     Engine
	command CommandMode
	jobs    []Job
	log     *slog.Logger
}

// NewScheduler creates a new Scheduler.
func NewScheduler(eng Engine, command CommandMode, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		eng:     eng,
		command: command,
		log:     logger,
	}
}

// AddJob registers a job.
func (s *Scheduler) AddJob(j Job) {
	s.jobs = append(s.jobs, j)
}

// Start greets the operator and runs the main loop. It blocks until ctx is
// cancelled. The heartbeat itself is paced by the engine's Beat.
func (s *Scheduler) Start(ctx context.Context) {
	s.eng.Inhibit(true)
	s.eng.PlayString(startupGreeting)
	s.eng.Inhibit(false)

	names := make([]string, 0, len(s.jobs))
	for _, j := range s.jobs {
		names = append(names, j.Name())
	}
	s.log.Info("Scheduler started", "jobs", names)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Scheduler stopped")
			return
		default:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	// A stopping engine reports the control key; that is not a request for
	// command mode.
	if s.eng.TakeControl() && ctx.Err() == nil {
		exit := s.command.Run()
		s.log.Debug("Back to normal keying", "exit", exit)
	}
	s.eng.Beat()
	for _, j := range s.jobs {
		j.Tick()
	}
	// Normal mode: the engine keys whatever the operator sends.
	s.eng.DecodeChar()
}
