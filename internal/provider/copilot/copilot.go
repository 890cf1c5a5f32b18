// Package copilot reads GitHub Copilot premium-request quotas.
package copilot

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
	DefaultBaseURL = "https://api.github.com"
	userPath       = "/copilot_internal/user"
)

// Adapter fetches Copilot quota snapshots with the GitHub OAuth token.
type Adapter struct {
	http    *http.Client
	baseURL string
}

// New creates a Copilot adapter. An empty baseURL selects api.github.com.
func New(client *http.Client, baseURL string) *Adapter {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Adapter{http: client, baseURL: strings.TrimRight(baseURL, "/")}
}

func (a *Adapter) Key() string  { return provider.KeyCopilot }
func (a *Adapter) Name() string { return "Copilot" }

type userResponse struct {
	CopilotPlan       string                   `json:"copilot_plan"`
	QuotaResetDate    string                   `json:"quota_reset_date"`
	QuotaResetDateUTC string                   `json:"quota_reset_date_utc"`
	QuotaSnapshots    map[string]quotaSnapshot `json:"quota_snapshots"`
}

type quotaSnapshot struct {
	Entitlement      float64  `json:"entitlement"`
	Remaining        float64  `json:"remaining"`
	PercentRemaining *float64 `json:"percent_remaining"`
	Unlimited        bool     `json:"unlimited"`
	OverageCount     float64  `json:"overage_count"`
}

// Fetch implements provider.Adapter.
func (a *Adapter) Fetch(ctx context.Context, creds auth.Store) usage.ProviderUsage {
	log := logger.FromContext(ctx).With(zap.String("provider", a.Key()))

	cred, err := creds.Get(a.Key())
	if err != nil {
		return provider.Fail(a, err)
	}
	// The GitHub token lives in the refresh slot; access holds the
	// short-lived Copilot session token, which this endpoint rejects.
	token := strings.TrimSpace(cred.Refresh)
	if token == "" {
		token = strings.TrimSpace(cred.Access)
	}
	if token == "" {
		return provider.Fail(a, fmt.Errorf("%w: empty github token", provider.ErrNoCredentials))
	}

	var resp userResponse
	err = provider.GetJSON(ctx, a.http, a.baseURL+userPath, map[string]string{
		"Authorization":        "token " + token,
		"Editor-Version":       "vscode/1.99.0",
		"X-Github-Api-Version": "2025-04-01",
	}, &resp)
	if err != nil {
		log.Warn("quota request failed", zap.Error(err))
		return provider.Fail(a, fmt.Errorf("copilot: %w", err))
	}

	premium, ok := resp.QuotaSnapshots["premium_interactions"]
	if !ok {
		return provider.Fail(a, errors.New("copilot: response missing premium_interactions quota"))
	}

	reset := usage.ParseISO8601(resp.QuotaResetDateUTC)
	if reset == nil {
		reset = usage.ParseISO8601(resp.QuotaResetDate)
	}

	out := usage.ProviderUsage{
		Provider:       a.Name(),
		Key:            a.Key(),
		Plan:           resp.CopilotPlan,
		PrimaryWindow:  premiumWindow(premium, reset),
		AdditionalInfo: quotaInfo(premium, resp.QuotaSnapshots["chat"]),
	}
	return out
}

func premiumWindow(q quotaSnapshot, reset *time.Time) *usage.UsageWindow {
	switch {
	case q.Unlimited:
		return usage.CountWindow(0, 0, reset, usage.CycleMonthly)
	case q.Entitlement > 0:
		w := usage.CountWindow(q.Entitlement-q.Remaining, q.Entitlement, reset, usage.CycleMonthly)
		w.Remaining = q.Remaining
		return w
	case q.PercentRemaining != nil:
		return usage.PercentWindow(100-*q.PercentRemaining, reset, usage.CycleMonthly)
	default:
		return usage.CountWindow(0, 0, reset, usage.CycleMonthly)
	}
}

func quotaInfo(premium, chat quotaSnapshot) string {
	var parts []string
	switch {
	case premium.Unlimited:
		parts = append(parts, "premium: unlimited")
	case premium.Entitlement > 0:
		parts = append(parts, fmt.Sprintf("premium: %.0f/%.0f left", premium.Remaining, premium.Entitlement))
	}
	if premium.OverageCount > 0 {
		parts = append(parts, fmt.Sprintf("overage: %.0f", premium.OverageCount))
	}
	if chat.Unlimited {
		parts = append(parts, "chat: unlimited")
	}
	return strings.Join(parts, ", ")
}
