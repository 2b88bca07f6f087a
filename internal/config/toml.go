// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	API   APIConfig   `toml:"api"`
	Quote QuoteConfig `toml:"quote"`
	Log   LogConfig   `toml:"log"`
}

// APIConfig maps quote backend settings.
type APIConfig struct {
	BaseURL *string   `toml:"base-url"`
	Timeout *Duration `toml:"timeout"`
}

// QuoteConfig maps default preferences and display behavior.
type QuoteConfig struct {
	Category       *string `toml:"category"`
	Topic          *string `toml:"topic"`
	Style          *string `toml:"style"`
	FallbackAuthor *string `toml:"fallback-author"`
	KeepOnError    *bool   `toml:"keep-on-error"`
	WarnThreshold  *int    `toml:"warn-threshold"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
