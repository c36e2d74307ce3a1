// Package audio provides the keyer's sidetone.
package audio

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"yackgo/pkg/config"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/speaker"
)

const (
	// rampTime shapes each tone edge to avoid key clicks.
	rampTime = 5 * time.Millisecond
	// toneCutoff rounds off the harmonics of the ramp.
	toneCutoff = 2500.0
	// bufferTime is the speaker latency.
	bufferTime = 10 * time.Millisecond
)

// Sidetone is the audible monitor of keyed output.
type Sidetone interface {
	// On starts the tone.
	On()
	// Off stops the tone.
	Off()
	// SetPitch changes the tone frequency in hertz.
	SetPitch(hz float64) error
	// Close releases the audio device.
	Close()
}

// Manager implements Sidetone using gopxl/beep.
type Manager struct {
	mu         sync.Mutex
	sampleRate beep.SampleRate
	pitch      float64
	volume     float64
	keyed      bool
	started    bool

	osc      *beep.Ctrl
	envelope *Envelope
	out      *effects.Volume
}

// New creates a new Manager instance. Nothing is played until Start.
func New(cfg *config.AudioConfig, pitch float64) (*Manager, error) {
	sr := beep.SampleRate(cfg.SampleRate)
	if sr <= 0 {
		sr = 44100
	}
	m := &Manager{
		sampleRate: sr,
		pitch:      pitch,
		volume:     clampVolume(cfg.Volume),
	}

	tone, err := generators.SineTone(sr, pitch)
	if err != nil {
		return nil, fmt.Errorf("sidetone at %.0f Hz: %w", pitch, err)
	}
	m.osc = &beep.Ctrl{Streamer: tone}
	m.envelope = NewEnvelope(NewLowPass(m.osc, sr, toneCutoff), sr, rampTime)
	m.out = &effects.Volume{
		Streamer: m.envelope,
		Base:     2,
		Volume:   volumeToPower(m.volume),
		Silent:   m.volume <= 0.01,
	}
	return m, nil
}

// Start opens the speaker and begins streaming the (silent) sidetone.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return nil
	}
	if err := speaker.Init(m.sampleRate, m.sampleRate.N(bufferTime)); err != nil {
		slog.Error("Failed to initialize speaker", "error", err)
		return err
	}
	speaker.Play(m.out)
	m.started = true
	slog.Debug("Sidetone started", "sample_rate", m.sampleRate, "pitch", m.pitch)
	return nil
}

// lockSpeaker guards streamer state once the speaker goroutine is running.
func (m *Manager) lockSpeaker() func() {
	if !m.started {
		return func() {}
	}
	speaker.Lock()
	return speaker.Unlock
}

// On starts the tone.
func (m *Manager) On() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.keyed {
		return
	}
	m.keyed = true
	defer m.lockSpeaker()()
	m.envelope.Key(true)
}

// Off stops the tone.
func (m *Manager) Off() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.keyed {
		return
	}
	m.keyed = false
	defer m.lockSpeaker()()
	m.envelope.Key(false)
}

// Keyed reports whether the tone is on.
func (m *Manager) Keyed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.keyed
}

// SetPitch replaces the oscillator.
func (m *Manager) SetPitch(hz float64) error {
	tone, err := generators.SineTone(m.sampleRate, hz)
	if err != nil {
		return fmt.Errorf("sidetone at %.0f Hz: %w", hz, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.pitch = hz
	defer m.lockSpeaker()()
	m.osc.Streamer = tone
	return nil
}

// Pitch returns the tone frequency in hertz.
func (m *Manager) Pitch() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pitch
}

// SetVolume sets the sidetone volume (0.0 to 1.0).
func (m *Manager) SetVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = clampVolume(vol)

	defer m.lockSpeaker()()
	m.out.Volume = volumeToPower(m.volume)
	m.out.Silent = m.volume <= 0.01
}

// Volume returns current volume level.
func (m *Manager) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

// Close stops the speaker.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started {
		return
	}
	speaker.Clear()
	speaker.Close()
	m.started = false
}

func clampVolume(vol float64) float64 {
	if vol < 0 {
		return 0
	}
	if vol > 1 {
		return 1
	}
	return vol
}

// Silent is a Sidetone that makes no sound, used when audio is disabled.
type Silent struct{}

func (Silent) On() {}
func (Silent) Off() {}
func (Silent) SetPitch(float64) error { return nil }
func (Silent) Close() {}
