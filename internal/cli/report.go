package cli

import (
	"encoding/json"
	"io"
	"time"

	"github.com/theirongolddev/qburn/internal/usage"
)

// WindowReport is the JSON form of a usage window.
type WindowReport struct {
	Utilization    float64    `json:"utilization"`
	Used           float64    `json:"used"`
	Limit          float64    `json:"limit"`
	Remaining      float64    `json:"remaining"`
	MinUtilization *float64   `json:"min_utilization,omitempty"`
	MaxUtilization *float64   `json:"max_utilization,omitempty"`
	ResetAt        *time.Time `json:"reset_at,omitempty"`
	ResetIn        string     `json:"reset_in"`
	Pace           string     `json:"pace"`
}

// SubRowReport is the JSON form of a sub-row.
type SubRowReport struct {
	Label  string        `json:"label"`
	Window *WindowReport `json:"window"`
}

// ProviderReport is the JSON form of one provider result.
type ProviderReport struct {
	Provider  string         `json:"provider"`
	Key       string         `json:"key"`
	Plan      string         `json:"plan,omitempty"`
	Info      string         `json:"info,omitempty"`
	Error     string         `json:"error,omitempty"`
	ErrorCode string         `json:"error_code,omitempty"`
	Primary   *WindowReport  `json:"primary,omitempty"`
	Secondary *WindowReport  `json:"secondary,omitempty"`
	Tertiary  *WindowReport  `json:"tertiary,omitempty"`
	SubRows   []SubRowReport `json:"sub_rows,omitempty"`
}

func windowReport(w *usage.UsageWindow, now time.Time) *WindowReport {
	if w == nil {
		return nil
	}
	return &WindowReport{
		Utilization:    w.Utilization,
		Used:           w.Used,
		Limit:          w.Limit,
		Remaining:      w.Remaining,
		MinUtilization: w.MinUtilization,
		MaxUtilization: w.MaxUtilization,
		ResetAt:        w.ResetAt,
		ResetIn:        usage.FormatReset(w, now),
		Pace:           usage.Pace(w, now),
	}
}

// BuildReport converts results into their JSON form using one clock snapshot.
func BuildReport(results []usage.ProviderUsage, now time.Time) []ProviderReport {
	out := make([]ProviderReport, 0, len(results))
	for _, p := range results {
		r := ProviderReport{
			Provider:  p.Provider,
			Key:       p.Key,
			Plan:      p.Plan,
			Info:      p.AdditionalInfo,
			Error:     p.Error,
			ErrorCode: string(p.ErrorCode),
		}
		if !p.Failed() {
			r.Primary = windowReport(p.PrimaryWindow, now)
			r.Secondary = windowReport(p.SecondaryWindow, now)
			r.Tertiary = windowReport(p.TertiaryWindow, now)
			for _, sr := range p.SubRows {
				r.SubRows = append(r.SubRows, SubRowReport{Label: sr.Label, Window: windowReport(sr.Window, now)})
			}
		}
		out = append(out, r)
	}
	return out
}

// WriteJSON writes the indented JSON report to w.
func WriteJSON(w io.Writer, results []usage.ProviderUsage, now time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildReport(results, now))
}
