// Package metrics exposes keyer activity counters to Prometheus.
//
// All recording methods are safe to call on a nil *Metrics, so components can
// be constructed without a registry in tests.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "yackgo"

// Metrics holds the keyer counters.
type Metrics struct {
	registry *prometheus.Registry

	commands      *prometheus.CounterVec
	modeEntries   *prometheus.CounterVec
	trainerRounds prometheus.Counter
	trainerErrors prometheus.Counter
	beaconFired   prometheus.Counter
}

// New creates the counters and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Command-mode characters by command and dispatch outcome.",
		}, []string{"command", "outcome"}),
		modeEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mode_entries_total",
			Help:      "Session mode entries by mode.",
		}, []string{"mode"}),
		trainerRounds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trainer_rounds_total",
			Help:      "Callsigns completed in the trainer.",
		}),
		trainerErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trainer_errors_total",
			Help:      "Wrong characters entered in the trainer.",
		}),
		beaconFired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "beacon_fired_total",
			Help:      "Beacon message playbacks.",
		}),
	}
	m.registry.MustRegister(m.commands, m.modeEntries, m.trainerRounds, m.trainerErrors, m.beaconFired)
	return m
}

// Registry returns the registry the counters live on.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Command counts one dispatched command character.
func (m *Metrics) Command(command byte, outcome string) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(string(command), outcome).Inc()
}

// ModeEntered counts one entry into mode.
func (m *Metrics) ModeEntered(mode string) {
	if m == nil {
		return
	}
	m.modeEntries.WithLabelValues(mode).Inc()
}

// TrainerRound counts one completed trainer callsign.
func (m *Metrics) TrainerRound() {
	if m == nil {
		return
	}
	m.trainerRounds.Inc()
}

// TrainerError counts one wrong trainer character.
func (m *Metrics) TrainerError() {
	if m == nil {
		return
	}
	m.trainerErrors.Inc()
}

// BeaconFired counts one beacon playback.
func (m *Metrics) BeaconFired() {
	if m == nil {
		return
	}
	m.beaconFired.Inc()
}
