package config

import (
	"fmt"
	"time"
)

// Duration is a time.Duration decoded from strings like "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	if parsed < 0 {
		return fmt.Errorf("duration must not be negative: %s", string(text))
	}
	d.Duration = parsed
	return nil
}
