// Package codex reads ChatGPT/Codex subscription rate limits.
package codex

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/theirongolddev/qburn/internal/auth"
	"github.com/theirongolddev/qburn/internal/logger"
	"github.com/theirongolddev/qburn/internal/provider"
	"github.com/theirongolddev/qburn/internal/usage"
)

const (
	DefaultBaseURL  = "https://chatgpt.com/backend-api"
	DefaultTokenURL = "https://auth.openai.com/oauth/token"
	clientID        = "app_EMoamEEZ73f0CkXaXp7hrann"
	usagePath       = "/wham/usage"
)

// Adapter fetches Codex usage with the ChatGPT OAuth token.
type Adapter struct {
	http     *http.Client
	baseURL  string
	tokenURL string
	now      func() time.Time
}

// New creates a Codex adapter. An empty baseURL selects the public endpoint.
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

func (a *Adapter) Key() string  { return provider.KeyCodex }
func (a *Adapter) Name() string { return "Codex" }

type usagePayload struct {
	PlanType  string        `json:"plan_type"`
	RateLimit *rateLimit    `json:"rate_limit"`
	Credits   *creditsState `json:"credits"`
}

type rateLimit struct {
	Allowed         bool            `json:"allowed"`
	LimitReached    bool            `json:"limit_reached"`
	PrimaryWindow   *windowSnapshot `json:"primary_window"`
	SecondaryWindow *windowSnapshot `json:"secondary_window"`
}

type windowSnapshot struct {
	UsedPercent        float64 `json:"used_percent"`
	LimitWindowSeconds int64   `json:"limit_window_seconds"`
	ResetAfterSeconds  int64   `json:"reset_after_seconds"`
	ResetAt            int64   `json:"reset_at"`
}

type creditsState struct {
	HasCredits bool    `json:"has_credits"`
	Unlimited  bool    `json:"unlimited"`
	Balance    *string `json:"balance"`
}

// Fetch implements provider.Adapter.
func (a *Adapter) Fetch(ctx context.Context, creds auth.Store) usage.ProviderUsage {
	log := logger.FromContext(ctx).With(zap.String("provider", a.Key()))

	cred, err := creds.Get(a.Key())
	if err != nil {
		return provider.Fail(a, err)
	}
	now := a.now()
	token, err := provider.AccessToken(ctx, a.http, cred, provider.RefreshRequest{
		TokenURL: a.tokenURL,
		ClientID: clientID,
		Scope:    "openid profile email",
	}, now)
	if err != nil {
		log.Warn("token unavailable", zap.Error(err))
		return provider.Fail(a, err)
	}

	headers := map[string]string{"Authorization": "Bearer " + token}
	if id := strings.TrimSpace(cred.AccountID); id != "" {
		headers["ChatGPT-Account-Id"] = id
	}

	var payload usagePayload
	if err := provider.GetJSON(ctx, a.http, a.baseURL+usagePath, headers, &payload); err != nil {
		log.Warn("usage request failed", zap.Error(err))
		return provider.Fail(a, fmt.Errorf("codex: %w", err))
	}
	if payload.RateLimit == nil || payload.RateLimit.PrimaryWindow == nil {
		return provider.Fail(a, errors.New("codex: response missing rate_limit"))
	}

	out := usage.ProviderUsage{
		Provider:        a.Name(),
		Key:             a.Key(),
		Plan:            payload.PlanType,
		PrimaryWindow:   toWindow(payload.RateLimit.PrimaryWindow, now),
		SecondaryWindow: toWindow(payload.RateLimit.SecondaryWindow, now),
		AdditionalInfo:  creditsInfo(payload.Credits),
	}
	if payload.RateLimit.LimitReached {
		out.AdditionalInfo = joinInfo("limit reached", out.AdditionalInfo)
	}
	return out
}

func toWindow(w *windowSnapshot, now time.Time) *usage.UsageWindow {
	if w == nil {
		return nil
	}
	reset := usage.ParseEpochSeconds(w.ResetAt)
	if reset == nil && w.ResetAfterSeconds > 0 {
		t := now.Add(time.Duration(w.ResetAfterSeconds) * time.Second)
		reset = &t
	}
	return usage.PercentWindow(w.UsedPercent, reset, cycleFor(w.LimitWindowSeconds))
}

func cycleFor(seconds int64) usage.Cycle {
	switch time.Duration(seconds) * time.Second {
	case usage.FiveHours:
		return usage.CycleFiveHour
	case usage.Week:
		return usage.CycleWeekly
	case usage.Month:
		return usage.CycleMonthly
	default:
		return usage.CycleNone
	}
}

func creditsInfo(c *creditsState) string {
	switch {
	case c == nil || !c.HasCredits:
		return ""
	case c.Unlimited:
		return "credits: unlimited"
	case c.Balance != nil && strings.TrimSpace(*c.Balance) != "":
		return "credits: " + strings.TrimSpace(*c.Balance)
	default:
		return ""
	}
}

func joinInfo(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}
