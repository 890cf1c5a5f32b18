package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.False(t, Exists())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[general]
auth_file = "/tmp/auth.json"
timeout_seconds = 3
show_antigravity = true

[appearance]
theme = "tokyo-night"

[providers]
disabled = ["github-copilot"]

[endpoints]
anthropic = "http://localhost:9000"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/auth.json", cfg.General.AuthFile)
	assert.True(t, cfg.General.ShowAntigravity)
	assert.Equal(t, 3*time.Second, Timeout(cfg))
	assert.Equal(t, "tokyo-night", cfg.Appearance.Theme)
	assert.True(t, Disabled(cfg, "github-copilot"))
	assert.False(t, Disabled(cfg, "openai"))
	assert.Equal(t, "http://localhost:9000", Endpoint(cfg, "anthropic"))
	assert.Empty(t, Endpoint(cfg, "antigravity"))
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[general\n"), 0o600))

	_, err := LoadFrom(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg := DefaultConfig()
	cfg.Appearance.Theme = "terminal"
	cfg.Providers.Disabled = []string{"antigravity"}
	require.NoError(t, Save(cfg))

	assert.Equal(t, filepath.Join(dir, "qburn", "config.toml"), Path())
	assert.True(t, Exists())

	got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestEnvOverrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.General.AuthFile = "/from/config.json"

	t.Setenv("QBURN_AUTH_FILE", "")
	t.Setenv("QBURN_THEME", "")
	assert.Equal(t, "/from/config.json", AuthFile(cfg))
	assert.Equal(t, "flexoki-dark", ThemeName(cfg))

	t.Setenv("QBURN_AUTH_FILE", "/from/env.json")
	t.Setenv("QBURN_THEME", "catppuccin-mocha")
	assert.Equal(t, "/from/env.json", AuthFile(cfg))
	assert.Equal(t, "catppuccin-mocha", ThemeName(cfg))
}

func TestTimeoutDefault(t *testing.T) {
	cfg := DefaultConfig()
	cfg.General.TimeoutSeconds = 0
	assert.Equal(t, DefaultTimeout, Timeout(cfg))
}
