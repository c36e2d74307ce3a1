// Package settings holds the keyer's persisted configuration: keying mode,
// flags, speed, pitch and Farnsworth pause. Changes are tracked per key and
// only dirty keys are written back on Save.
package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"yackgo/pkg/config"
	"yackgo/pkg/keyer"
	"yackgo/pkg/store"
)

// Limits.
const (
	MinPitch  = 400.0
	MaxPitch  = 1200.0
	PitchStep = 20.0

	MinWPM = 5
	MaxWPM = 50

	MaxFarnsworth  = 1000 * time.Millisecond
	FarnsworthStep = 20 * time.Millisecond
)

var flagKeys = map[keyer.Flag]string{
	keyer.PaddleSwap: config.KeyPaddleSwap,
	keyer.Sidetone:   config.KeySidetone,
	keyer.TxKey:      config.KeyTxKey,
	keyer.TxInvert:   config.KeyTxInvert,
	keyer.ConfLock:   config.KeyConfLock,
}

// Settings is a snapshot of the persisted configuration.
type Settings struct {
	Mode       keyer.ModeVariant
	WPM        int
	Pitch      float64
	Farnsworth time.Duration
	Flags      map[keyer.Flag]bool
}

func (s Settings) clone() Settings {
	flags := make(map[keyer.Flag]bool, len(s.Flags))
	for f, v := range s.Flags {
		flags[f] = v
	}
	s.Flags = flags
	return s
}

// Defaults returns the factory settings for cfg.
func Defaults(cfg *config.Config) Settings {
	mode, ok := keyer.ParseModeVariant(cfg.Engine.Mode)
	if !ok {
		mode = keyer.IambicB
	}
	return Settings{
		Mode:       mode,
		WPM:        clampInt(cfg.Engine.WPM, MinWPM, MaxWPM),
		Pitch:      clampFloat(float64(cfg.Engine.Pitch), MinPitch, MaxPitch),
		Farnsworth: clampDuration(time.Duration(cfg.Engine.Farnsworth), 0, MaxFarnsworth),
		Flags: map[keyer.Flag]bool{
			keyer.PaddleSwap: false,
			keyer.Sidetone:   true,
			keyer.TxKey:      true,
			keyer.TxInvert:   false,
			keyer.ConfLock:   false,
		},
	}
}

// Manager guards the live settings and their dirty state.
type Manager struct {
	mu       sync.RWMutex
	cur      Settings
	defaults Settings
	dirty    map[string]bool
	store    store.StateStore
	log      *slog.Logger
}

// Load resolves the live settings through the provider.
func Load(ctx context.Context, p config.Provider, st store.StateStore, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := Defaults(p.AppConfig())

	mode, ok := keyer.ParseModeVariant(p.Mode(ctx))
	if !ok {
		logger.Warn("Unknown stored mode, using default", "mode", p.Mode(ctx))
		mode = defaults.Mode
	}
	cur := Settings{
		Mode:       mode,
		WPM:        clampInt(p.WPM(ctx), MinWPM, MaxWPM),
		Pitch:      clampFloat(p.Pitch(ctx), MinPitch, MaxPitch),
		Farnsworth: clampDuration(p.Farnsworth(ctx), 0, MaxFarnsworth),
		Flags: map[keyer.Flag]bool{
			keyer.PaddleSwap: p.PaddleSwap(ctx),
			keyer.Sidetone:   p.Sidetone(ctx),
			keyer.TxKey:      p.TxKey(ctx),
			keyer.TxInvert:   p.TxInvert(ctx),
			keyer.ConfLock:   p.ConfLock(ctx),
		},
	}
	logger.Debug("Settings loaded", "mode", cur.Mode, "wpm", cur.WPM, "pitch", cur.Pitch, "farnsworth", cur.Farnsworth)

	return &Manager{
		cur:      cur,
		defaults: defaults,
		dirty:    make(map[string]bool),
		store:    st,
		log:      logger,
	}
}

// Snapshot returns a copy of the live settings.
func (m *Manager) Snapshot() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cur.clone()
}

func (m *Manager) Mode() keyer.ModeVariant {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cur.Mode
}

func (m *Manager) SetMode(v keyer.ModeVariant) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cur.Mode != v {
		m.cur.Mode = v
		m.dirty[config.KeyMode] = true
	}
}

func (m *Manager) Flag(f keyer.Flag) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cur.Flags[f]
}

// Toggle inverts f and returns the new value.
func (m *Manager) Toggle(f keyer.Flag) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cur.Flags[f] = !m.cur.Flags[f]
	m.dirty[flagKeys[f]] = true
	return m.cur.Flags[f]
}

func (m *Manager) WPM() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cur.WPM
}

// AdjustWPM moves the speed one word per minute. It reports false at a limit.
func (m *Manager) AdjustWPM(d keyer.Direction) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := m.cur.WPM + 1
	if d == keyer.Down {
		next = m.cur.WPM - 1
	}
	if next < MinWPM || next > MaxWPM {
		return false
	}
	m.cur.WPM = next
	m.dirty[config.KeyWPM] = true
	return true
}

func (m *Manager) Pitch() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cur.Pitch
}

// AdjustPitch moves the sidetone one step. It reports false at a limit.
func (m *Manager) AdjustPitch(d keyer.Direction) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := m.cur.Pitch + PitchStep
	if d == keyer.Down {
		next = m.cur.Pitch - PitchStep
	}
	if next < MinPitch || next > MaxPitch {
		return false
	}
	m.cur.Pitch = next
	m.dirty[config.KeyPitch] = true
	return true
}

func (m *Manager) Farnsworth() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cur.Farnsworth
}

// AdjustFarnsworth shortens (Up) or lengthens (Down) the extra pause between
// characters. It reports false at a limit.
func (m *Manager) AdjustFarnsworth(d keyer.Direction) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := m.cur.Farnsworth - FarnsworthStep
	if d == keyer.Down {
		next = m.cur.Farnsworth + FarnsworthStep
	}
	if next < 0 || next > MaxFarnsworth {
		return false
	}
	m.cur.Farnsworth = next
	m.dirty[config.KeyFarnsworth] = true
	return true
}

// Dirty reports unsaved changes.
func (m *Manager) Dirty() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.dirty) > 0
}

// Reset restores the factory defaults and marks every key dirty.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cur = m.defaults.clone()
	m.dirty[config.KeyMode] = true
	m.dirty[config.KeyWPM] = true
	m.dirty[config.KeyPitch] = true
	m.dirty[config.KeyFarnsworth] = true
	for _, key := range flagKeys {
		m.dirty[key] = true
	}
	m.log.Info("Settings reset to defaults")
}

// Save writes dirty keys to the store. Keys that fail stay dirty.
func (m *Manager) Save(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.dirty) == 0 {
		return nil
	}
	if m.store == nil {
		return errors.New("settings: no store")
	}

	var errs []error
	for key := range m.dirty {
		if err := m.store.SetState(ctx, key, m.valueLocked(key)); err != nil {
			errs = append(errs, fmt.Errorf("save %s: %w", key, err))
			continue
		}
		delete(m.dirty, key)
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	m.log.Debug("Settings saved")
	return nil
}

func (m *Manager) valueLocked(key string) string {
	switch key {
	case config.KeyMode:
		return m.cur.Mode.String()
	case config.KeyWPM:
		return strconv.Itoa(m.cur.WPM)
	case config.KeyPitch:
		return strconv.FormatFloat(m.cur.Pitch, 'f', -1, 64)
	case config.KeyFarnsworth:
		return m.cur.Farnsworth.String()
	}
	for f, k := range flagKeys {
		if k == key {
			return strconv.FormatBool(m.cur.Flags[f])
		}
	}
	return ""
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func clampFloat(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}

func clampDuration(v, lo, hi time.Duration) time.Duration {
	return max(lo, min(v, hi))
}
