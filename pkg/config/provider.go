package config

import (
	"context"
	"strconv"
	"time"

	"yackgo/pkg/store"
)

// Provider resolves keyer settings: the value persisted by the keyer wins,
// the YAML factory default is the fallback.
type Provider interface {
	Mode(ctx context.Context) string
	WPM(ctx context.Context) int
	Pitch(ctx context.Context) float64
	Farnsworth(ctx context.Context) time.Duration

	PaddleSwap(ctx context.Context) bool
	Sidetone(ctx context.Context) bool
	TxKey(ctx context.Context) bool
	TxInvert(ctx context.Context) bool
	ConfLock(ctx context.Context) bool

	// Raw access (for components that need deep access)
	AppConfig() *Config
}

// UnifiedProvider implements Provider by bridging static Config and persistent Store.
type UnifiedProvider struct {
	base  *Config
	store store.StateStore
}

// NewProvider creates a new UnifiedProvider.
func NewProvider(base *Config, st store.StateStore) *UnifiedProvider {
	return &UnifiedProvider{
		base:  base,
		store: st,
	}
}

func (p *UnifiedProvider) AppConfig() *Config { return p.base }

// --- Implementations ---

func (p *UnifiedProvider) Mode(ctx context.Context) string {
	fallback := p.base.Engine.Mode
	if fallback == "" {
		fallback = "iambic_b"
	}
	return p.getString(ctx, KeyMode, fallback)
}

func (p *UnifiedProvider) WPM(ctx context.Context) int {
	return p.getInt(ctx, KeyWPM, p.base.Engine.WPM)
}

func (p *UnifiedProvider) Pitch(ctx context.Context) float64 {
	return p.getFloat64(ctx, KeyPitch, float64(p.base.Engine.Pitch))
}

func (p *UnifiedProvider) Farnsworth(ctx context.Context) time.Duration {
	return p.getDuration(ctx, KeyFarnsworth, time.Duration(p.base.Engine.Farnsworth))
}

func (p *UnifiedProvider) PaddleSwap(ctx context.Context) bool {
	return p.getBool(ctx, KeyPaddleSwap, false)
}

func (p *UnifiedProvider) Sidetone(ctx context.Context) bool {
	return p.getBool(ctx, KeySidetone, true)
}

func (p *UnifiedProvider) TxKey(ctx context.Context) bool {
	return p.getBool(ctx, KeyTxKey, true)
}

func (p *UnifiedProvider) TxInvert(ctx context.Context) bool {
	return p.getBool(ctx, KeyTxInvert, false)
}

func (p *UnifiedProvider) ConfLock(ctx context.Context) bool {
	return p.getBool(ctx, KeyConfLock, false)
}

// --- Helpers ---

func (p *UnifiedProvider) getString(ctx context.Context, key, fallback string) string {
	if p.store != nil {
		if val, ok := p.store.GetState(ctx, key); ok && val != "" {
			return val
		}
	}
	return fallback
}

func (p *UnifiedProvider) getInt(ctx context.Context, key string, fallback int) int {
	if p.store != nil {
		if val, ok := p.store.GetState(ctx, key); ok && val != "" {
			if i, err := strconv.Atoi(val); err == nil {
				return i
			}
		}
	}
	return fallback
}

func (p *UnifiedProvider) getFloat64(ctx context.Context, key string, fallback float64) float64 {
	if p.store != nil {
		if val, ok := p.store.GetState(ctx, key); ok && val != "" {
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				return f
			}
		}
	}
	return fallback
}

func (p *UnifiedProvider) getBool(ctx context.Context, key string, fallback bool) bool {
	if p.store != nil {
		if val, ok := p.store.GetState(ctx, key); ok && val != "" {
			return val == "true"
		}
	}
	return fallback
}

func (p *UnifiedProvider) getDuration(ctx context.Context, key string, fallback time.Duration) time.Duration {
	if p.store != nil {
		if val, ok := p.store.GetState(ctx, key); ok && val != "" {
			if dur, err := ParseDuration(val); err == nil {
				return dur
			}
		}
	}
	return fallback
}
