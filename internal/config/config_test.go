package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigHasSaneTimeouts(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Preflight.ResolverTimeout.Duration != 10*time.Second {
		t.Fatalf("unexpected default resolver timeout: %v", cfg.Preflight.ResolverTimeout.Duration)
	}
	if cfg.Preflight.CascadeModeDefault != "basic" {
		t.Fatalf("expected default cascade mode basic, got %q", cfg.Preflight.CascadeModeDefault)
	}
}

func TestLoadFromReaderOverlaysDefaults(t *testing.T) {
	doc := `
[preflight]
skip_preflight = true
resolver_timeout = "30s"

[general]
log_level = "debug"
`
	cfg, err := LoadFromReader(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Preflight.SkipPreflight {
		t.Fatal("expected skip_preflight true from document")
	}
	if cfg.Preflight.ResolverTimeout.Duration != 30*time.Second {
		t.Fatalf("expected overridden resolver timeout, got %v", cfg.Preflight.ResolverTimeout.Duration)
	}
	if cfg.General.LogLevel != "debug" {
		t.Fatalf("expected log level debug, got %q", cfg.General.LogLevel)
	}
	// Untouched field should retain its default.
	if cfg.Keybinds.CycleForward != "tab" {
		t.Fatalf("expected default keybind to survive partial overlay, got %q", cfg.Keybinds.CycleForward)
	}
}

func TestLoadFromReaderRejectsMalformedDuration(t *testing.T) {
	doc := `
[preflight]
resolver_timeout = "not-a-duration"
`
	if _, err := LoadFromReader(strings.NewReader(doc)); err == nil {
		t.Fatal("expected an error for a malformed duration string")
	}
}

func TestApplyEnvOverridesSkipPreflight(t *testing.T) {
	t.Setenv("PACSEA_SKIP_PREFLIGHT", "1")
	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	if !cfg.Preflight.SkipPreflight {
		t.Fatal("expected env override to set skip_preflight")
	}
}

func TestLoadFromFileMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFromFile("/nonexistent/path/pacsea.toml")
	if err != nil {
		t.Fatalf("unexpected error for missing file: %v", err)
	}
	if cfg.General.LogLevel != "info" {
		t.Fatalf("expected default log level, got %q", cfg.General.LogLevel)
	}
}
