package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/qburn/internal/auth"
	"github.com/theirongolddev/qburn/internal/config"
	"github.com/theirongolddev/qburn/internal/provider"
)

func TestBuildAdaptersSkipsDisabled(t *testing.T) {
	cfg := config.DefaultConfig()
	assert.Len(t, buildAdapters(cfg, time.Second), 5)

	cfg.Providers.Disabled = []string{provider.KeyCopilot, provider.KeyAntigravity}
	var keys []string
	for _, a := range buildAdapters(cfg, time.Second) {
		keys = append(keys, a.Key())
	}
	assert.Equal(t, []string{provider.KeyCodex, provider.KeyClaude, provider.KeyZai}, keys)
}

func TestSetupAnswersApply(t *testing.T) {
	cfg := config.DefaultConfig()
	a := answersFrom(cfg)
	assert.Equal(t, "10", a.Timeout)

	a.AuthFile = "  /tmp/auth.json "
	a.Theme = "no-such-theme"
	a.Timeout = "4"
	a.Disabled = []string{provider.KeyZai}
	a.ShowAntigravity = true

	got, err := a.apply(cfg)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/auth.json", got.General.AuthFile)
	assert.Equal(t, "flexoki-dark", got.Appearance.Theme)
	assert.Equal(t, 4, got.General.TimeoutSeconds)
	assert.True(t, got.General.ShowAntigravity)
	assert.True(t, config.Disabled(got, provider.KeyZai))

	a.Timeout = "-1"
	_, err = a.apply(cfg)
	assert.Error(t, err)
}

func TestCredentialStatus(t *testing.T) {
	creds := auth.Store{
		provider.KeyClaude: {Type: auth.TypeOAuth, Refresh: "r", Access: "a"},
		provider.KeyZai:    {Type: auth.TypeAPI, Key: "zai-0123456789abcdef"},
	}
	assert.Equal(t, "oauth", credentialStatus(creds, provider.KeyClaude))
	assert.Equal(t, "api key zai-0123...cdef", credentialStatus(creds, provider.KeyZai))
	assert.Equal(t, "missing", credentialStatus(creds, provider.KeyCodex))
	assert.Equal(t, "local app", credentialStatus(creds, provider.KeyAntigravity))
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("abc"))
	assert.Equal(t, "abcd...", maskAPIKey("abcdefgh"))
}
