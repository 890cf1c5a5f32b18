package cmd

import (
	"time"

	"github.com/theirongolddev/qburn/internal/config"
	"github.com/theirongolddev/qburn/internal/provider"
	"github.com/theirongolddev/qburn/internal/provider/antigravity"
	"github.com/theirongolddev/qburn/internal/provider/claude"
	"github.com/theirongolddev/qburn/internal/provider/codex"
	"github.com/theirongolddev/qburn/internal/provider/copilot"
	"github.com/theirongolddev/qburn/internal/provider/zai"
)

// allAdapters returns every known adapter in display order.
func allAdapters(cfg config.Config, timeout time.Duration) []provider.Adapter {
	client := provider.NewHTTPClient(timeout)
	return []provider.Adapter{
		codex.New(client, config.Endpoint(cfg, provider.KeyCodex)),
		claude.New(client, config.Endpoint(cfg, provider.KeyClaude)),
		copilot.New(client, config.Endpoint(cfg, provider.KeyCopilot)),
		zai.New(client, config.Endpoint(cfg, provider.KeyZai)),
		antigravity.New(timeout),
	}
}

// buildAdapters returns the adapters not disabled in config.
func buildAdapters(cfg config.Config, timeout time.Duration) []provider.Adapter {
	var out []provider.Adapter
	for _, a := range allAdapters(cfg, timeout) {
		if !config.Disabled(cfg, a.Key()) {
			out = append(out, a)
		}
	}
	return out
}
