package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration read from YAML. A bare number is taken as
// milliseconds, the unit keyer timings are usually quoted in.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	dur, err := ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// ParseDuration parses a Go duration string or a bare number of milliseconds.
// Negative values are rejected.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	var dur time.Duration
	if ms, err := strconv.ParseFloat(s, 64); err == nil {
		dur = time.Duration(ms * float64(time.Millisecond))
	} else if dur, err = time.ParseDuration(s); err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if dur < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	return dur, nil
}

// Frequency is a tone frequency in hertz.
type Frequency float64

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *Frequency) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		// Plain number means hertz.
		var n float64
		if errNum := value.Decode(&n); errNum == nil {
			*f = Frequency(n)
			return nil
		}
		return err
	}

	hz, err := ParseFrequency(s)
	if err != nil {
		return err
	}
	*f = Frequency(hz)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (f Frequency) MarshalYAML() (interface{}, error) {
	return fmt.Sprintf("%gHz", float64(f)), nil
}

// ParseFrequency parses "700Hz", "0.7kHz" or a bare number of hertz.
func ParseFrequency(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	var mult float64
	var numStr string
	lower := strings.ToLower(s)

	switch {
	case strings.HasSuffix(lower, "khz"):
		mult = 1000
		numStr = s[:len(s)-3]
	case strings.HasSuffix(lower, "hz"):
		mult = 1
		numStr = s[:len(s)-2]
	default:
		mult = 1
		numStr = s
	}

	val, err := strconv.ParseFloat(strings.TrimSpace(numStr), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid frequency number: %w", err)
	}

	return val * mult, nil
}
