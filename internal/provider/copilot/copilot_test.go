package copilot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/qburn/internal/auth"
	"github.com/theirongolddev/qburn/internal/usage"
)

func serve(t *testing.T, body string) *Adapter {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/copilot_internal/user", r.URL.Path)
		assert.Equal(t, "token gho_abc", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return New(srv.Client(), srv.URL)
}

func creds() auth.Store {
	return auth.Store{"github-copilot": {Type: auth.TypeOAuth, Refresh: "gho_abc", Access: "tid=short-lived"}}
}

func TestFetch(t *testing.T) {
	a := serve(t, `{
		"copilot_plan": "individual",
		"quota_reset_date": "2026-04-01",
		"quota_snapshots": {
			"premium_interactions": {"entitlement": 300, "remaining": 240, "percent_remaining": 80, "unlimited": false, "overage_count": 0},
			"chat": {"entitlement": 0, "remaining": 0, "unlimited": true}
		}
	}`)

	got := a.Fetch(context.Background(), creds())
	require.False(t, got.Failed(), got.Error)
	assert.Equal(t, "Copilot", got.Provider)
	assert.Equal(t, "individual", got.Plan)

	w := got.PrimaryWindow
	require.NotNil(t, w)
	assert.Equal(t, 60.0, w.Used)
	assert.Equal(t, 300.0, w.Limit)
	assert.Equal(t, 240.0, w.Remaining)
	assert.InDelta(t, 20.0, w.Utilization, 1e-9)
	assert.Equal(t, usage.CycleMonthly, w.Cycle)
	require.NotNil(t, w.ResetAt)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), *w.ResetAt)

	assert.Equal(t, "premium: 240/300 left, chat: unlimited", got.AdditionalInfo)
}

func TestFetchUnlimitedHasNoPace(t *testing.T) {
	a := serve(t, `{"copilot_plan":"business","quota_snapshots":{"premium_interactions":{"unlimited":true}}}`)
	got := a.Fetch(context.Background(), creds())
	require.False(t, got.Failed(), got.Error)
	assert.Equal(t, 0.0, got.PrimaryWindow.Limit)
	assert.Equal(t, "N/A", usage.Pace(got.PrimaryWindow, time.Now()))
	assert.Equal(t, "premium: unlimited", got.AdditionalInfo)
}

func TestFetchPercentOnly(t *testing.T) {
	a := serve(t, `{"quota_reset_date_utc":"2026-04-01T00:00:00.000Z","quota_snapshots":{"premium_interactions":{"percent_remaining":25}}}`)
	got := a.Fetch(context.Background(), creds())
	require.False(t, got.Failed(), got.Error)
	assert.Equal(t, 75.0, got.PrimaryWindow.Utilization)
	assert.NotNil(t, got.PrimaryWindow.ResetAt)
}

func TestFetchMissingPremium(t *testing.T) {
	a := serve(t, `{"quota_snapshots":{}}`)
	got := a.Fetch(context.Background(), creds())
	assert.True(t, got.Failed())
	assert.Equal(t, usage.ErrFetchFailed, got.ErrorCode)
}

func TestFetchNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)
	got := New(srv.Client(), srv.URL).Fetch(context.Background(), creds())
	assert.Equal(t, usage.ErrNotFound, got.ErrorCode)
}

func TestFetchEmptyToken(t *testing.T) {
	got := New(http.DefaultClient, "").Fetch(context.Background(), auth.Store{"github-copilot": {Type: auth.TypeOAuth}})
	assert.Equal(t, usage.ErrNoCredentials, got.ErrorCode)
}

func TestQuotaInfoOverage(t *testing.T) {
	got := quotaInfo(quotaSnapshot{Entitlement: 300, Remaining: 0, OverageCount: 12}, quotaSnapshot{})
	assert.Equal(t, "premium: 0/300 left, overage: 12", got)
}
