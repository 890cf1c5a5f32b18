// Package claude fetches Claude subscription rate limits with the OAuth
// token Claude Code stores.
package claude

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/theirongolddev/qburn/internal/auth"
	"github.com/theirongolddev/qburn/internal/logger"
	"github.com/theirongolddev/qburn/internal/provider"
	"github.com/theirongolddev/qburn/internal/usage"
)

const (
	DefaultBaseURL  = "https://api.anthropic.com"
	DefaultTokenURL = "https://console.anthropic.com/v1/oauth/token"
	clientID        = "9d1c250a-e61b-44d9-88ed-5944d1962f5e"
	usagePath       = "/api/oauth/usage"
	betaHeader      = "oauth-2025-04-20"
)

// Adapter fetches usage windows from the Anthropic OAuth API.
type Adapter struct {
	http     *http.Client
	baseURL  string
	tokenURL string
	now      func() time.Time
}

// New creates a Claude adapter. An empty baseURL selects the public API.
func New(client *http.Client, baseURL string) *Adapter {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Adapter{
		http:     client,
		baseURL:  strings.TrimRight(baseURL, "/"),
		tokenURL: DefaultTokenURL,
		now:      time.Now,
	}
}

func (a *Adapter) Key() string  { return provider.KeyClaude }
func (a *Adapter) Name() string { return "Claude" }

// Fetch implements provider.Adapter.
func (a *Adapter) Fetch(ctx context.Context, creds auth.Store) usage.ProviderUsage {
	log := logger.FromContext(ctx).With(zap.String("provider", a.Key()))

	cred, err := creds.Get(a.Key())
	if err != nil {
		return provider.Fail(a, err)
	}
	token, err := provider.AccessToken(ctx, a.http, cred, provider.RefreshRequest{
		TokenURL: a.tokenURL,
		ClientID: clientID,
	}, a.now())
	if err != nil {
		log.Warn("token unavailable", zap.Error(err))
		return provider.Fail(a, err)
	}

	var raw usageResponse
	err = provider.GetJSON(ctx, a.http, a.baseURL+usagePath, map[string]string{
		"Authorization":  "Bearer " + token,
		"anthropic-beta": betaHeader,
	}, &raw)
	if err != nil {
		log.Warn("usage request failed", zap.Error(err))
		return provider.Fail(a, fmt.Errorf("claude: %w", err))
	}

	out := usage.ProviderUsage{
		Provider:        a.Name(),
		Key:             a.Key(),
		PrimaryWindow:   parseWindow(raw.FiveHour, usage.CycleFiveHour),
		SecondaryWindow: parseWindow(raw.SevenDay, usage.CycleWeekly),
		AdditionalInfo:  extraUsageInfo(raw.ExtraUsage),
	}
	// Only one model-specific weekly window is shown; Opus wins when present.
	if w := parseWindow(raw.SevenDayOpus, usage.CycleWeekly); w != nil {
		out.TertiaryWindow = w
	} else {
		out.TertiaryWindow = parseWindow(raw.SevenDaySonnet, usage.CycleWeekly)
	}
	return out
}

// parseWindow converts a raw window into a percent window.
// Returns nil if the input is nil or unparseable.
func parseWindow(w *rawWindow, cycle usage.Cycle) *usage.UsageWindow {
	if w == nil {
		return nil
	}
	pct, ok := parseUtilization(w.Utilization)
	if !ok {
		return nil
	}
	var reset *time.Time
	if w.ResetsAt != nil {
		reset = usage.ParseISO8601(*w.ResetsAt)
	}
	return usage.PercentWindow(pct, reset, cycle)
}

// parseUtilization defensively parses the polymorphic utilization field.
// Handles int (75), float (75.5), and string ("75%" or "75.5").
// The API reports percentages on a 0-100 scale.
func parseUtilization(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSuffix(strings.TrimSpace(s), "%")
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v, true
		}
	}

	return 0, false
}

func extraUsageInfo(e *extraUsage) string {
	if e == nil || !e.IsEnabled || e.MonthlyLimit == nil || e.UsedCredits == nil {
		return ""
	}
	return fmt.Sprintf("extra: $%.2f/$%.2f", *e.UsedCredits/100, *e.MonthlyLimit/100)
}
