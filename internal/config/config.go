// Package config loads qburn preferences from an XDG TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultTimeout bounds each provider request when the config sets none.
const DefaultTimeout = 10 * time.Second

// Config holds all qburn configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Appearance AppearanceConfig `toml:"appearance"`
	Providers  ProvidersConfig  `toml:"providers"`
	Endpoints  EndpointsConfig  `toml:"endpoints"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	AuthFile        string `toml:"auth_file,omitempty"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
	ShowAntigravity bool   `toml:"show_antigravity"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// ProvidersConfig selects which adapters run.
type ProvidersConfig struct {
	Disabled []string `toml:"disabled,omitempty"`
}

// EndpointsConfig overrides provider base URLs, keyed like auth.json.
type EndpointsConfig struct {
	Codex   string `toml:"openai,omitempty"`
	Claude  string `toml:"anthropic,omitempty"`
	Copilot string `toml:"github-copilot,omitempty"`
	Zai     string `toml:"zai-coding-plan,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			TimeoutSeconds: int(DefaultTimeout / time.Second),
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "qburn")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "qburn")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config at path, returning defaults if it doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's own config file
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to the default path.
func Save(cfg Config) error {
	return SaveTo(Path(), cfg)
}

// SaveTo writes the config to path, creating parent directories.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // path is the user's own config file
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// AuthFile returns the credential file override from env var or config, in
// that order. Empty means auto-detect.
func AuthFile(cfg Config) string {
	if p := os.Getenv("QBURN_AUTH_FILE"); p != "" {
		return p
	}
	return cfg.General.AuthFile
}

// ThemeName returns the theme from env var or config, in that order.
func ThemeName(cfg Config) string {
	if t := os.Getenv("QBURN_THEME"); t != "" {
		return t
	}
	return cfg.Appearance.Theme
}

// Timeout returns the per-request timeout.
func Timeout(cfg Config) time.Duration {
	if cfg.General.TimeoutSeconds <= 0 {
		return DefaultTimeout
	}
	return time.Duration(cfg.General.TimeoutSeconds) * time.Second
}

// Disabled reports whether the provider with the given key is switched off.
func Disabled(cfg Config, key string) bool {
	return slices.Contains(cfg.Providers.Disabled, key)
}

// Endpoint returns the base URL override for a provider key, or "".
func Endpoint(cfg Config, key string) string {
	switch key {
	case "openai":
		return cfg.Endpoints.Codex
	case "anthropic":
		return cfg.Endpoints.Claude
	case "github-copilot":
		return cfg.Endpoints.Copilot
	case "zai-coding-plan":
		return cfg.Endpoints.Zai
	}
	return ""
}
