// Package config loads Pacsea's TOML configuration document (spec
// SPEC_FULL.md §A): a complete idiomatic substitute for the line-
// oriented settings/theme/keybinds `.conf` skeleton format the
// specification's core leaves as an external collaborator, built the
// way the teacher's own `pkg/config` package loads its TOML document.
package config

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is Pacsea's full runtime configuration.
type Config struct {
	General  GeneralConfig  `toml:"general"`
	Preflight PreflightConfig `toml:"preflight"`
	Keybinds KeybindsConfig `toml:"keybinds"`
	Cache    CacheConfig    `toml:"cache"`
}

// GeneralConfig holds process-wide settings.
type GeneralConfig struct {
	LogLevel string `toml:"log_level"`
	CacheDir string `toml:"cache_dir"`
}

// PreflightConfig holds settings governing the preflight modal and
// resolver (spec §4.5-§4.7).
type PreflightConfig struct {
	SkipPreflight      bool     `toml:"skip_preflight"`
	CascadeModeDefault string   `toml:"cascade_mode_default"`
	ResolverTimeout    Duration `toml:"resolver_timeout"`
	AurRPCTimeout      Duration `toml:"aur_rpc_timeout"`
	DetailDebounce     Duration `toml:"detail_debounce"`
	FlushThrottle      Duration `toml:"flush_throttle"`
}

// KeybindsConfig holds the pane-cycle and selection-extension chords
// (spec §4.8).
type KeybindsConfig struct {
	CycleForward  string `toml:"cycle_forward"`
	CycleBackward string `toml:"cycle_backward"`
	ToggleNormal  string `toml:"toggle_normal"`
	SelectLeft    string `toml:"select_left"`
	SelectRight   string `toml:"select_right"`
}

// CacheConfig holds on-disk cache directory overrides.
type CacheConfig struct {
	Dir string `toml:"dir"`
}

// DefaultConfig returns the built-in default configuration, used when
// no config file is present.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		General: GeneralConfig{
			LogLevel: "info",
			CacheDir: filepath.Join(xdgCacheHome(home), "pacsea"),
		},
		Preflight: PreflightConfig{
			SkipPreflight:      false,
			CascadeModeDefault: "basic",
			ResolverTimeout:    Duration{10 * time.Second},
			AurRPCTimeout:      Duration{10 * time.Second},
			DetailDebounce:     Duration{150 * time.Millisecond},
			FlushThrottle:      Duration{1 * time.Second},
		},
		Keybinds: KeybindsConfig{
			CycleForward:  "tab",
			CycleBackward: "shift+tab",
			ToggleNormal:  "esc",
			SelectLeft:    "shift+left",
			SelectRight:   "shift+right",
		},
		Cache: CacheConfig{},
	}
}

// Load reads configuration from the standard search path:
//  1. $XDG_CONFIG_HOME/pacsea/pacsea.toml
//  2. ~/.config/pacsea/pacsea.toml
//
// If no file exists, it returns DefaultConfig() with env overrides
// applied.
func Load() (*Config, error) {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}
	defer f.Close()
	return LoadFromReader(f)
}

// LoadFromReader reads configuration from an io.Reader, starting from
// DefaultConfig and overlaying whatever the document sets.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides checks PACSEA_* environment variables and
// overrides config values, mirroring the teacher's applyEnvOverrides.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PACSEA_LOG_LEVEL"); v != "" {
		cfg.General.LogLevel = v
	}
	if v := os.Getenv("PACSEA_CACHE_DIR"); v != "" {
		cfg.General.CacheDir = v
		cfg.Cache.Dir = v
	}
	if v := os.Getenv("PACSEA_SKIP_PREFLIGHT"); v == "1" || v == "true" {
		cfg.Preflight.SkipPreflight = true
	}
}

func configSearchPaths() []string {
	home, _ := os.UserHomeDir()
	var paths []string

	xdg := xdgConfigHome(home)
	paths = append(paths, filepath.Join(xdg, "pacsea", "pacsea.toml"))

	defaultXDG := filepath.Join(home, ".config")
	if xdg != defaultXDG {
		paths = append(paths, filepath.Join(defaultXDG, "pacsea", "pacsea.toml"))
	}
	return paths
}

func xdgConfigHome(home string) string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".config")
}

func xdgCacheHome(home string) string {
	if v := os.Getenv("XDG_CACHE_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".cache")
}
