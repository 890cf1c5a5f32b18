// Package zai reads Z.ai coding-plan token and MCP quotas.
package zai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/theirongolddev/qburn/internal/auth"
	"github.com/theirongolddev/qburn/internal/logger"
	"github.com/theirongolddev/qburn/internal/provider"
	"github.com/theirongolddev/qburn/internal/usage"
)

const (
	DefaultBaseURL = "https://api.z.ai"
	quotaLimitPath = "/api/monitor/usage/quota/limit"

	limitTokens = "TOKENS_LIMIT"
	limitTime   = "TIME_LIMIT" // monthly MCP tool calls
)

// Adapter fetches Z.ai quota limits with an API key.
type Adapter struct {
	http    *http.Client
	baseURL string
}

// New creates a Z.ai adapter. An empty baseURL selects the global endpoint.
func New(client *http.Client, baseURL string) *Adapter {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Adapter{http: client, baseURL: strings.TrimRight(baseURL, "/")}
}

func (a *Adapter) Key() string  { return provider.KeyZai }
func (a *Adapter) Name() string { return "Z.ai" }

type envelope struct {
	Code    int        `json:"code"`
	Msg     string     `json:"msg"`
	Success bool       `json:"success"`
	Data    *quotaData `json:"data"`
}

type quotaData struct {
	PlanName string       `json:"planName"`
	Limits   []quotaLimit `json:"limits"`
}

type quotaLimit struct {
	Type          string  `json:"type"`
	Usage         float64 `json:"usage"` // the limit, despite the name
	CurrentValue  float64 `json:"currentValue"`
	Remaining     float64 `json:"remaining"`
	Percentage    float64 `json:"percentage"`
	NextResetTime float64 `json:"nextResetTime"` // unix ms
}

// Fetch implements provider.Adapter.
func (a *Adapter) Fetch(ctx context.Context, creds auth.Store) usage.ProviderUsage {
	log := logger.FromContext(ctx).With(zap.String("provider", a.Key()))

	cred, err := creds.Get(a.Key())
	if err != nil {
		return provider.Fail(a, err)
	}
	key := strings.TrimSpace(cred.Key)
	if !cred.IsAPI() || key == "" {
		return provider.Fail(a, fmt.Errorf("%w: expected api key", provider.ErrNoCredentials))
	}

	var env envelope
	err = provider.GetJSON(ctx, a.http, a.baseURL+quotaLimitPath, map[string]string{
		"Authorization":   key,
		"Accept-Language": "en-US,en",
	}, &env)
	if err != nil {
		log.Warn("quota request failed", zap.Error(err))
		return provider.Fail(a, fmt.Errorf("zai: %w", err))
	}
	if !env.Success || env.Data == nil {
		msg := env.Msg
		if msg == "" {
			msg = "empty response"
		}
		return provider.Fail(a, fmt.Errorf("zai: %s (code %d)", msg, env.Code))
	}

	out := usage.ProviderUsage{
		Provider: a.Name(),
		Key:      a.Key(),
		Plan:     env.Data.PlanName,
	}
	for _, l := range env.Data.Limits {
		switch l.Type {
		case limitTokens:
			out.PrimaryWindow = toWindow(l, usage.CycleFiveHour)
		case limitTime:
			out.TertiaryWindow = toWindow(l, usage.CycleMCP)
			out.AdditionalInfo = fmt.Sprintf("mcp: %.0f/%.0f calls", l.CurrentValue, l.Usage)
		default:
			log.Debug("ignoring unknown limit type", zap.String("type", l.Type))
		}
	}
	if out.PrimaryWindow == nil && out.TertiaryWindow == nil {
		return provider.Fail(a, errors.New("zai: response has no known limits"))
	}
	return out
}

// toWindow prefers absolute counts and falls back to the reported percentage.
// The reported remaining value is kept as-is.
func toWindow(l quotaLimit, cycle usage.Cycle) *usage.UsageWindow {
	reset := usage.ParseEpochMs(l.NextResetTime)
	if l.Usage <= 0 {
		return usage.PercentWindow(l.Percentage, reset, cycle)
	}
	w := usage.CountWindow(l.CurrentValue, l.Usage, reset, cycle)
	w.Remaining = l.Remaining
	return w
}
