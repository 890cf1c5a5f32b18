package usage

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// onTrackBand is the dead band, in percent of the limit, inside which usage
// counts as on track. The boundary itself is not on track.
const onTrackBand = 5.0

const (
	paceOnTrack = "✓"
	paceAhead   = "↑"
	paceBehind  = "↓"
	mcpPrefix   = "mcp: "
)

// PaceColor is the verdict of a pace string expressed as a colour category.
type PaceColor int

const (
	PaceNeutral PaceColor = iota
	PaceFavorable
	PaceWarning
)

func (c PaceColor) String() string {
	switch c {
	case PaceFavorable:
		return "favorable"
	case PaceWarning:
		return "warning"
	default:
		return "neutral"
	}
}

// CalculatePace compares actual usage with a uniform consumption rate over a
// cycle of the given length that ends at w.ResetAt.
func CalculatePace(w *UsageWindow, cycle time.Duration, now time.Time) string {
	return calculatePace(w, cycle, now, false)
}

// CalculateFiveHourPace paces a 5-hour rolling window.
func CalculateFiveHourPace(w *UsageWindow, now time.Time) string {
	return calculatePace(w, FiveHours, now, false)
}

// CalculateWeeklyPace paces a 7-day window.
func CalculateWeeklyPace(w *UsageWindow, now time.Time) string {
	return calculatePace(w, Week, now, false)
}

// CalculateMonthlyPace paces a 30-day window.
func CalculateMonthlyPace(w *UsageWindow, now time.Time) string {
	return calculatePace(w, Month, now, false)
}

// CalculateMCPPace paces the 30-day MCP quota. Elapsed time is clamped to the
// cycle and every result carries the "mcp: " prefix.
func CalculateMCPPace(w *UsageWindow, now time.Time) string {
	return mcpPrefix + calculatePace(w, Month, now, true)
}

// Pace picks the calculator matching w.Cycle.
func Pace(w *UsageWindow, now time.Time) string {
	if w == nil {
		return notAvailable
	}
	switch w.Cycle {
	case CycleFiveHour:
		return CalculateFiveHourPace(w, now)
	case CycleWeekly:
		return CalculateWeeklyPace(w, now)
	case CycleMonthly:
		return CalculateMonthlyPace(w, now)
	case CycleMCP:
		return CalculateMCPPace(w, now)
	default:
		return notAvailable
	}
}

func calculatePace(w *UsageWindow, cycle time.Duration, now time.Time, clamp bool) string {
	if w == nil || w.Limit == 0 || cycle <= 0 {
		return notAvailable
	}
	if w.ResetAt == nil {
		return fmt.Sprintf("%.1f%% used", w.Utilization)
	}

	elapsed := cycle - w.ResetAt.Sub(now)
	if clamp {
		elapsed = max(0, min(elapsed, cycle))
	}
	if elapsed <= 0 {
		return "0% (just reset)"
	}

	expected := float64(elapsed) / float64(cycle) * w.Limit
	diff := w.Used - expected
	diffPct := diff / w.Limit * 100

	switch {
	case math.Abs(diffPct) < onTrackBand:
		return paceOnTrack + " on track"
	case diff > 0:
		return fmt.Sprintf("%s %.1f%% ahead", paceAhead, diffPct)
	default:
		return fmt.Sprintf("%s %.1f%% behind", paceBehind, math.Abs(diffPct))
	}
}

// GetPaceColor classifies a pace string. Ahead of pace is a warning; on track
// and behind are favorable; anything else, "N/A" included, is neutral.
func GetPaceColor(pace string) PaceColor {
	pace = strings.TrimPrefix(pace, mcpPrefix)
	switch {
	case strings.HasPrefix(pace, paceOnTrack):
		return PaceFavorable
	case strings.HasPrefix(pace, paceAhead):
		return PaceWarning
	case strings.HasPrefix(pace, paceBehind):
		return PaceFavorable
	default:
		return PaceNeutral
	}
}
