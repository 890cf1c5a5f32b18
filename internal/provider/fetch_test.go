package provider

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/qburn/internal/auth"
	"github.com/theirongolddev/qburn/internal/usage"
)

type stubAdapter struct {
	key, name string
	fetch     func(ctx context.Context, creds auth.Store) usage.ProviderUsage
}

func (s stubAdapter) Key() string  { return s.key }
func (s stubAdapter) Name() string { return s.name }
func (s stubAdapter) Fetch(ctx context.Context, creds auth.Store) usage.ProviderUsage {
	return s.fetch(ctx, creds)
}

func TestFetchAllRunsConcurrently(t *testing.T) {
	const n = 4
	var started atomic.Int32
	release := make(chan struct{})

	adapters := make([]Adapter, n)
	for i := range adapters {
		adapters[i] = stubAdapter{
			key:  string(rune('a' + i)),
			name: string(rune('A' + i)),
			fetch: func(context.Context, auth.Store) usage.ProviderUsage {
				if started.Add(1) == n {
					close(release)
				}
				select {
				case <-release:
				case <-time.After(5 * time.Second):
					return usage.Failure("", "", usage.ErrFetchFailed, errors.New("not launched together"))
				}
				return usage.ProviderUsage{PrimaryWindow: usage.PercentWindow(10, nil, usage.CycleNone)}
			},
		}
	}

	results := FetchAll(context.Background(), adapters, auth.Store{})
	require.Len(t, results, n)
	for i, r := range results {
		assert.False(t, r.Failed(), "result %d failed: %s", i, r.Error)
		assert.Equal(t, adapters[i].Name(), r.Provider, "results keep adapter order")
		assert.Equal(t, adapters[i].Key(), r.Key)
	}
}

func TestFetchAllIsolatesPanics(t *testing.T) {
	adapters := []Adapter{
		stubAdapter{key: "bad", name: "Bad", fetch: func(context.Context, auth.Store) usage.ProviderUsage {
			panic("kaboom")
		}},
		stubAdapter{key: "good", name: "Good", fetch: func(context.Context, auth.Store) usage.ProviderUsage {
			return usage.ProviderUsage{Provider: "Good", PrimaryWindow: usage.PercentWindow(1, nil, usage.CycleNone)}
		}},
	}

	results := FetchAll(context.Background(), adapters, auth.Store{})
	require.Len(t, results, 2)
	assert.True(t, results[0].Failed())
	assert.Equal(t, usage.ErrFetchFailed, results[0].ErrorCode)
	assert.Contains(t, results[0].Error, "kaboom")
	assert.False(t, results[1].Failed())
}

func TestFetchAllPassesCredentials(t *testing.T) {
	creds := auth.Store{"x": {Type: auth.TypeAPI, Key: "k"}}
	a := stubAdapter{key: "x", name: "X", fetch: func(_ context.Context, c auth.Store) usage.ProviderUsage {
		return usage.ProviderUsage{AdditionalInfo: c["x"].Key}
	}}
	results := FetchAll(context.Background(), []Adapter{a}, creds)
	assert.Equal(t, "k", results[0].AdditionalInfo)
}

func TestVisible(t *testing.T) {
	rows := []usage.ProviderUsage{
		{Provider: "Codex", Key: KeyCodex},
		usage.Failure("Claude", KeyClaude, usage.ErrNoCredentials, errors.New("none")),
		usage.Failure("Antigravity", KeyAntigravity, usage.ErrNotFound, errors.New("not running")),
		usage.Failure("Antigravity", KeyAntigravity, usage.ErrConnectionRefused, errors.New("refused")),
		usage.Failure("Z.ai", KeyZai, usage.ErrNotFound, errors.New("404")),
		usage.Failure("Copilot", KeyCopilot, usage.ErrTokenRefreshFailed, errors.New("refresh")),
	}

	got := Visible(rows, false)
	names := make([]string, 0, len(got))
	for _, r := range got {
		names = append(names, r.Provider+":"+string(r.ErrorCode))
	}
	assert.Equal(t, []string{"Codex:", "Z.ai:not_found", "Copilot:token_refresh_failed"}, names)

	assert.Len(t, Visible(rows, true), len(rows))
}

func TestSort(t *testing.T) {
	rows := []usage.ProviderUsage{
		usage.Failure("Alpha", "a", usage.ErrFetchFailed, errors.New("x")),
		{Provider: "Zeta"},
		{Provider: "Codex"},
		usage.Failure("Beta", "b", usage.ErrFetchFailed, errors.New("x")),
	}
	Sort(rows)

	var order []string
	for _, r := range rows {
		order = append(order, r.Provider)
	}
	assert.Equal(t, []string{"Codex", "Zeta", "Alpha", "Beta"}, order)
}
