// Package usage holds the normalized quota model shared by every provider
// adapter, plus the pure formatting and pace functions the CLI renders with.
package usage

import "time"

// Cycle identifies the reset cycle a window belongs to and therefore which
// pace calculation applies to it.
type Cycle int

const (
	CycleNone Cycle = iota
	CycleFiveHour
	CycleWeekly
	CycleMonthly
	CycleMCP
)

// Cycle lengths used by the pace calculators.
const (
	FiveHours = 5 * time.Hour
	Week      = 7 * 24 * time.Hour
	Month     = 30 * 24 * time.Hour
)

// UsageWindow is a single quota or rate-limit window.
// Limit == 0 means the limit is unknown or unbounded.
type UsageWindow struct {
	Used        float64
	Limit       float64
	Remaining   float64
	Utilization float64 // percent, may exceed 100
	ResetAt     *time.Time

	// Set only when the row summarizes several sub-quotas.
	MinUtilization *float64
	MaxUtilization *float64

	Cycle Cycle
}

// HasRange reports whether the window carries a min/max utilization range.
func (w *UsageWindow) HasRange() bool {
	return w != nil && w.MinUtilization != nil && w.MaxUtilization != nil
}

// SubRow is one entry of a per-model breakdown under an aggregate row.
type SubRow struct {
	Label  string
	Window *UsageWindow
}

// ErrorCode classifies a failed fetch so the CLI can decide whether to show it.
type ErrorCode string

const (
	ErrNoCredentials       ErrorCode = "no_credentials"
	ErrEndpointUnavailable ErrorCode = "endpoint_unavailable"
	ErrTokenRefreshFailed  ErrorCode = "token_refresh_failed"
	ErrNotFound            ErrorCode = "not_found"
	ErrConnectionRefused   ErrorCode = "connection_refused"
	ErrFetchFailed         ErrorCode = "fetch_failed"
)

// ProviderUsage is the result of one provider fetch.
type ProviderUsage struct {
	Provider string
	Key      string

	PrimaryWindow   *UsageWindow
	SecondaryWindow *UsageWindow
	TertiaryWindow  *UsageWindow

	Plan           string
	AdditionalInfo string

	Error     string
	ErrorCode ErrorCode

	SubRows []SubRow
}

// Failed reports whether the fetch failed. Windows of a failed result are
// never formatted or paced.
func (p ProviderUsage) Failed() bool {
	return p.Error != ""
}

// Windows returns the populated window slots in primary, secondary, tertiary order.
func (p ProviderUsage) Windows() []*UsageWindow {
	out := make([]*UsageWindow, 0, 3)
	for _, w := range []*UsageWindow{p.PrimaryWindow, p.SecondaryWindow, p.TertiaryWindow} {
		if w != nil {
			out = append(out, w)
		}
	}
	return out
}

// Failure builds a failed result. A nil err yields a generic message.
func Failure(provider, key string, code ErrorCode, err error) ProviderUsage {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	if code == "" {
		code = ErrFetchFailed
	}
	return ProviderUsage{
		Provider:  provider,
		Key:       key,
		Error:     msg,
		ErrorCode: code,
	}
}

// PercentWindow builds a window for providers that only report a percentage.
func PercentWindow(utilization float64, resetAt *time.Time, cycle Cycle) *UsageWindow {
	return &UsageWindow{
		Used:        utilization,
		Limit:       100,
		Remaining:   100 - utilization,
		Utilization: utilization,
		ResetAt:     resetAt,
		Cycle:       cycle,
	}
}

// CountWindow builds a window from absolute used/limit counts.
func CountWindow(used, limit float64, resetAt *time.Time, cycle Cycle) *UsageWindow {
	w := &UsageWindow{
		Used:    used,
		Limit:   limit,
		ResetAt: resetAt,
		Cycle:   cycle,
	}
	if limit > 0 {
		w.Remaining = limit - used
		w.Utilization = used / limit * 100
	}
	return w
}

// RangeWindow summarizes several windows into one with a min/max utilization
// range. The reset time is the earliest known reset. Returns nil for no input.
func RangeWindow(windows []*UsageWindow) *UsageWindow {
	var minU, maxU float64
	var earliest *time.Time
	seen := 0
	for _, w := range windows {
		if w == nil {
			continue
		}
		if seen == 0 || w.Utilization < minU {
			minU = w.Utilization
		}
		if seen == 0 || w.Utilization > maxU {
			maxU = w.Utilization
		}
		if w.ResetAt != nil && (earliest == nil || w.ResetAt.Before(*earliest)) {
			t := *w.ResetAt
			earliest = &t
		}
		seen++
	}
	if seen == 0 {
		return nil
	}
	out := PercentWindow(maxU, earliest, CycleNone)
	out.MinUtilization = &minU
	out.MaxUtilization = &maxU
	return out
}
