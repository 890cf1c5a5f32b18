package zai

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

func serve(t *testing.T, status int, body string) *Adapter {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/monitor/usage/quota/limit", r.URL.Path)
		assert.Equal(t, "zk-123", r.Header.Get("Authorization"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return New(srv.Client(), srv.URL)
}

func creds() auth.Store {
	return auth.Store{"zai-coding-plan": {Type: auth.TypeAPI, Key: "zk-123"}}
}

func TestFetch(t *testing.T) {
	a := serve(t, http.StatusOK, `{
		"code": 200, "msg": "ok", "success": true,
		"data": {"planName": "Pro", "limits": [
			{"type": "TOKENS_LIMIT", "usage": 800000000, "currentValue": 200000000, "remaining": 600000000, "percentage": 25, "nextResetTime": 1773158400000},
			{"type": "TIME_LIMIT", "usage": 1000, "currentValue": 130, "remaining": 870, "percentage": 13, "nextResetTime": 1775000000000},
			{"type": "SOMETHING_NEW", "usage": 1}
		]}
	}`)

	got := a.Fetch(context.Background(), creds())
	require.False(t, got.Failed(), got.Error)
	assert.Equal(t, "Z.ai", got.Provider)
	assert.Equal(t, "Pro", got.Plan)

	p := got.PrimaryWindow
	require.NotNil(t, p)
	assert.Equal(t, 25.0, p.Utilization)
	assert.Equal(t, 600000000.0, p.Remaining)
	assert.Equal(t, usage.CycleFiveHour, p.Cycle)
	require.NotNil(t, p.ResetAt)
	assert.Equal(t, int64(1773158400000), p.ResetAt.UnixMilli())

	m := got.TertiaryWindow
	require.NotNil(t, m)
	assert.Equal(t, usage.CycleMCP, m.Cycle)
	assert.Equal(t, 130.0, m.Used)
	assert.Equal(t, 1000.0, m.Limit)
	assert.Equal(t, "mcp: 130/1000 calls", got.AdditionalInfo)
	assert.Nil(t, got.SecondaryWindow)
}

func TestFetchPercentageFallbackAndBadReset(t *testing.T) {
	a := serve(t, http.StatusOK, `{"success": true, "data": {"limits": [
		{"type": "TOKENS_LIMIT", "usage": 0, "percentage": 61.5, "nextResetTime": 0}
	]}}`)
	got := a.Fetch(context.Background(), creds())
	require.False(t, got.Failed(), got.Error)
	assert.Equal(t, 61.5, got.PrimaryWindow.Utilization)
	assert.Nil(t, got.PrimaryWindow.ResetAt)
	assert.Equal(t, "61.5% used", usage.Pace(got.PrimaryWindow, testNow()))
}

func TestFetchAPIFailure(t *testing.T) {
	a := serve(t, http.StatusOK, `{"code": 1001, "msg": "token expired", "success": false}`)
	got := a.Fetch(context.Background(), creds())
	assert.True(t, got.Failed())
	assert.Equal(t, usage.ErrFetchFailed, got.ErrorCode)
	assert.Contains(t, got.Error, "token expired")
}

func TestFetchNoKnownLimits(t *testing.T) {
	a := serve(t, http.StatusOK, `{"success": true, "data": {"limits": []}}`)
	got := a.Fetch(context.Background(), creds())
	assert.True(t, got.Failed())
}

func TestFetchUnavailable(t *testing.T) {
	a := serve(t, http.StatusServiceUnavailable, `maintenance`)
	got := a.Fetch(context.Background(), creds())
	assert.Equal(t, usage.ErrEndpointUnavailable, got.ErrorCode)
}

func TestFetchRequiresAPIKey(t *testing.T) {
	a := New(http.DefaultClient, "")
	got := a.Fetch(context.Background(), auth.Store{"zai-coding-plan": {Type: auth.TypeOAuth, Access: "x"}})
	assert.Equal(t, usage.ErrNoCredentials, got.ErrorCode)
}

func testNow() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
