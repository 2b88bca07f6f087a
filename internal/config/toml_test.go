package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.API.BaseURL != nil || cfg.Quote.Category != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[api]
base-url = "https://quotes.example.com/"
timeout = "5s"

[quote]
category = "wisdom"
keep-on-error = true
warn-threshold = 10

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.API.BaseURL == nil || *cfg.API.BaseURL != "https://quotes.example.com/" {
		t.Fatalf("unexpected base url: %v", cfg.API.BaseURL)
	}
	if cfg.API.Timeout == nil || cfg.API.Timeout.Duration != 5*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.API.Timeout)
	}
	if cfg.Quote.Category == nil || *cfg.Quote.Category != "wisdom" {
		t.Fatalf("unexpected category: %v", cfg.Quote.Category)
	}
	if cfg.Quote.KeepOnError == nil || !*cfg.Quote.KeepOnError {
		t.Fatalf("expected keep-on-error")
	}
	if cfg.Quote.WarnThreshold == nil || *cfg.Quote.WarnThreshold != 10 {
		t.Fatalf("unexpected warn threshold: %v", cfg.Quote.WarnThreshold)
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log level: %v", cfg.Log.Level)
	}
	if cfg.Quote.Topic != nil {
		t.Fatalf("expected unset topic")
	}
}

func TestLoadConfigRejectsUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[quote]\nlength = \"long\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestLoadConfigBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[api]\ntimeout = \"soon\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected duration error")
	}
}
