package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds the application configuration.
type Config struct {
	Keyer   KeyerConfig   `yaml:"keyer"`
	Engine  EngineConfig  `yaml:"engine"`
	Audio   AudioConfig   `yaml:"audio"`
	Input   InputConfig   `yaml:"input"`
	Log     LogConfig     `yaml:"log"`
	DB      DBConfig      `yaml:"db"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// KeyerConfig holds settings for the command and mode layer.
type KeyerConfig struct {
	TickRate       int      `yaml:"tick_rate"` // heartbeats per second
	IdleTimeout    Duration `yaml:"idle_timeout"`
	MacroTimeout   Duration `yaml:"macro_timeout"`
	TrainerTimeout Duration `yaml:"trainer_timeout"`
	RecordTimeout  Duration `yaml:"record_timeout"`
	AdjustRepeat   int      `yaml:"adjust_repeat"`
	BeaconSlot     int      `yaml:"beacon_slot"`      // message slot played by the beacon
	BeaconUserSlot int      `yaml:"beacon_user_slot"` // user scalar holding the interval
	Seed           uint16   `yaml:"seed"`
}

// EngineConfig holds factory defaults for the keying engine.
type EngineConfig struct {
	Mode           string    `yaml:"mode"`
	WPM            int       `yaml:"wpm"`
	Pitch          Frequency `yaml:"pitch"`
	Farnsworth     Duration  `yaml:"farnsworth"`
	TuneDuration   Duration  `yaml:"tune_duration"`
	MessageTimeout Duration  `yaml:"message_timeout"`
}

// AudioConfig holds sidetone output settings.
type AudioConfig struct {
	Enabled    bool    `yaml:"enabled"`
	SampleRate int     `yaml:"sample_rate"`
	Volume     float64 `yaml:"volume"` // 0.0 .. 1.0
}

// InputConfig selects where paddle input comes from.
type InputConfig struct {
	Provider string       `yaml:"provider"` // "terminal", "serial"
	Serial   SerialConfig `yaml:"serial"`
}

// SerialConfig holds settings for a serial paddle board.
type SerialConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Server     LogSettings `yaml:"server"`
	Transcript LogSettings `yaml:"transcript"`
	Trace      bool        `yaml:"trace"`
}

// LogSettings holds settings for a specific logger.
type LogSettings struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// DBConfig holds database settings.
type DBConfig struct {
	Path string `yaml:"path"`
}

// MetricsConfig holds the Prometheus endpoint settings. An empty address
// disables the endpoint.
type MetricsConfig struct {
	Address string `yaml:"address"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Keyer: KeyerConfig{
			TickRate:       100,
			IdleTimeout:    Duration(10 * time.Second),
			MacroTimeout:   Duration(5 * time.Second),
			TrainerTimeout: Duration(10 * time.Second),
			RecordTimeout:  Duration(10 * time.Second),
			AdjustRepeat:   10,
			BeaconSlot:     4,
			BeaconUserSlot: 1,
			Seed:           0xACE1,
		},
		Engine: EngineConfig{
			Mode:           "iambic_b",
			WPM:            20,
			Pitch:          Frequency(700),
			Farnsworth:     0,
			TuneDuration:   Duration(20 * time.Second),
			MessageTimeout: Duration(5 * time.Second),
		},
		Audio: AudioConfig{
			Enabled:    true,
			SampleRate: 44100,
			Volume:     0.5,
		},
		Input: InputConfig{
			Provider: "terminal",
			Serial: SerialConfig{
				Port: "/dev/ttyUSB0",
				Baud: 115200,
			},
		},
		Log: LogConfig{
			Server: LogSettings{
				Path:  "./logs/yackgo.log",
				Level: "INFO",
			},
			Transcript: LogSettings{
				Path:  "./logs/transcript.log",
				Level: "INFO",
			},
		},
		DB: DBConfig{
			Path: "./data/yackgo.db",
		},
		Metrics: MetricsConfig{
			Address: "",
		},
	}
}

// Load loads the configuration from the given path.
// If the file does not exist, it creates it with default values.
// If the file exists, it merges defaults with existing values but does NOT save back to disk.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if err := Save(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config file: %w", err)
	}

	// Env fallbacks and path expansion are applied in memory only.
	if v := os.Getenv("YACKGO_INPUT"); v != "" {
		cfg.Input.Provider = v
	}
	if v := os.Getenv("YACKGO_SERIAL_PORT"); v != "" {
		cfg.Input.Serial.Port = v
	}
	cfg.DB.Path = expandPath(cfg.DB.Path)
	cfg.Log.Server.Path = expandPath(cfg.Log.Server.Path)
	cfg.Log.Transcript.Path = expandPath(cfg.Log.Transcript.Path)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges the keyer cannot run without.
func (c *Config) Validate() error {
	var errs []error
	if c.Keyer.TickRate <= 0 || c.Keyer.TickRate > 1000 {
		errs = append(errs, fmt.Errorf("%w: keyer.tick_rate %d out of range 1..1000", ErrInvalid, c.Keyer.TickRate))
	}
	if c.Keyer.BeaconSlot < 1 || c.Keyer.BeaconSlot > 4 {
		errs = append(errs, fmt.Errorf("%w: keyer.beacon_slot %d out of range 1..4", ErrInvalid, c.Keyer.BeaconSlot))
	}
	if c.Engine.WPM < 5 || c.Engine.WPM > 50 {
		errs = append(errs, fmt.Errorf("%w: engine.wpm %d out of range 5..50", ErrInvalid, c.Engine.WPM))
	}
	if !reMode.MatchString(c.Engine.Mode) {
		errs = append(errs, fmt.Errorf("%w: engine.mode %q", ErrInvalid, c.Engine.Mode))
	}
	switch c.Input.Provider {
	case "terminal", "serial":
	default:
		errs = append(errs, fmt.Errorf("%w: input.provider %q", ErrInvalid, c.Input.Provider))
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		errs = append(errs, fmt.Errorf("%w: audio.volume %.2f out of range 0..1", ErrInvalid, c.Audio.Volume))
	}
	return errors.Join(errs...)
}

var reMode = regexp.MustCompile(`^(iambic_a|iambic_b|ultimatic|dah_priority)$`)

// expandPath resolves $VAR and %VAR% references.
func expandPath(p string) string {
	p = rePercentVar.ReplaceAllString(p, "$${$1}")
	return os.ExpandEnv(p)
}

var rePercentVar = regexp.MustCompile(`%([A-Za-z_][A-Za-z0-9_]*)%`)

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# yackgo Configuration
# ---------------------
# Supported Units:
#   Duration:  ms, s, m, h (a bare number is milliseconds)
#   Frequency: Hz, kHz

`)
	data = append(header, data...)

	reModeKey := regexp.MustCompile(`(?m)^(\s+)mode:`)
	data = reModeKey.ReplaceAll(data, []byte("${1}# Options: iambic_a, iambic_b, ultimatic, dah_priority\n${1}mode:"))

	reProvider := regexp.MustCompile(`(?m)^(\s+)provider:`)
	data = reProvider.ReplaceAll(data, []byte("${1}# Options: terminal, serial\n${1}provider:"))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateDefault creates a default config file at the given path.
// Returns nil if the file already exists.
func GenerateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return Save(path, DefaultConfig())
}
