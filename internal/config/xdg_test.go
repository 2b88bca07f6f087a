package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	t.Setenv("XDG_STATE_HOME", "/tmp/state")

	if got := DefaultConfigPath(); got != filepath.Join("/tmp/cfg", "quipe", "config.toml") {
		t.Fatalf("unexpected config path %s", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/tmp/data", "quipe", "quipe.db") {
		t.Fatalf("unexpected db path %s", got)
	}
	if got := DefaultLogPath(); got != filepath.Join("/tmp/state", "quipe", "quipe.log") {
		t.Fatalf("unexpected log path %s", got)
	}
}
