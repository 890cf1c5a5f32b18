package provider

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/theirongolddev/qburn/internal/auth"
	"github.com/theirongolddev/qburn/internal/logger"
	"github.com/theirongolddev/qburn/internal/usage"
)

// FetchAll queries every adapter concurrently and waits for all of them.
// Results keep adapter order. One adapter failing, or panicking, never
// affects the others.
func FetchAll(ctx context.Context, adapters []Adapter, creds auth.Store) []usage.ProviderUsage {
	results := make([]usage.ProviderUsage, len(adapters))

	var wg sync.WaitGroup
	for i, a := range adapters {
		i, a := i, a
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = fetchOne(ctx, a, creds)
		}()
	}
	wg.Wait()
	return results
}

func fetchOne(ctx context.Context, a Adapter, creds auth.Store) (result usage.ProviderUsage) {
	log := logger.FromContext(ctx).With(zap.String("provider", a.Key()))
	defer func() {
		if r := recover(); r != nil {
			log.Error("adapter panicked", zap.Any("panic", r))
			result = Fail(a, fmt.Errorf("adapter panic: %v", r))
		}
	}()

	log.Debug("fetch start")
	result = a.Fetch(ctx, creds)
	if result.Provider == "" {
		result.Provider = a.Name()
	}
	if result.Key == "" {
		result.Key = a.Key()
	}
	switch {
	case hidden(result):
		log.Debug("fetch skipped", zap.String("code", string(result.ErrorCode)))
	case result.Failed():
		log.Warn("fetch failed", zap.String("code", string(result.ErrorCode)), zap.String("error", result.Error))
	default:
		log.Debug("fetch done", zap.Int("windows", len(result.Windows())), zap.Int("sub_rows", len(result.SubRows)))
	}
	return result
}

// Visible drops rows the user has nothing to act on: providers without
// credentials, and a local app that is simply not running. showAll keeps them.
func Visible(results []usage.ProviderUsage, showAll bool) []usage.ProviderUsage {
	if showAll {
		return results
	}
	return lo.Filter(results, func(r usage.ProviderUsage, _ int) bool {
		return !hidden(r)
	})
}

func hidden(r usage.ProviderUsage) bool {
	if r.ErrorCode == usage.ErrNoCredentials {
		return true
	}
	return r.Key == KeyAntigravity &&
		(r.ErrorCode == usage.ErrNotFound || r.ErrorCode == usage.ErrConnectionRefused)
}

// Sort orders successful rows before failed ones, then by provider name.
func Sort(results []usage.ProviderUsage) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Failed() != results[j].Failed() {
			return !results[i].Failed()
		}
		return results[i].Provider < results[j].Provider
	})
}
