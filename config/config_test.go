package config

import (
	"os"
	"path/filepath"
	"testing"
)

func useTempConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	SetConfigDir(dir)
	t.Cleanup(func() { SetConfigDir("") })
	return dir
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	useTempConfigDir(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Feed.SelfID != defaultSelfID {
		t.Fatalf("SelfID = %q, want default %q", cfg.Feed.SelfID, defaultSelfID)
	}
	if len(cfg.Feed.Peers) == 0 {
		t.Fatal("default peers should not be empty")
	}
	if cfg.Logging.Enabled == nil || !*cfg.Logging.Enabled {
		t.Fatal("logging should default to enabled")
	}
}

func TestLoadAppliesDefaultsToPartialConfig(t *testing.T) {
	dir := useTempConfigDir(t)

	yaml := "feed:\n  selfId: marta\nlogging:\n  level: debug\n"
	if err := os.WriteFile(filepath.Join(dir, configFileName), []byte(yaml), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Feed.SelfID != "marta" {
		t.Fatalf("SelfID = %q, want %q", cfg.Feed.SelfID, "marta")
	}
	if cfg.Feed.IntervalSecs != defaultIntervalSecs {
		t.Fatalf("IntervalSecs = %d, want default %d", cfg.Feed.IntervalSecs, defaultIntervalSecs)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Logging.File == "" {
		t.Fatal("log file should fall back to the default path")
	}
}

func TestLoadMalformedFileErrors(t *testing.T) {
	dir := useTempConfigDir(t)

	if err := os.WriteFile(filepath.Join(dir, configFileName), []byte("feed: ["), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("expected an error for malformed yaml")
	}
}
