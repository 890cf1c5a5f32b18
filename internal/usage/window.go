package usage

import (
	"fmt"
	"time"
)

const notAvailable = "N/A"

// FormatWindow renders a window as "{percent} ({reset})", e.g. "12.3% (4h 2m)".
// now is the single clock snapshot for the whole render.
func FormatWindow(w *UsageWindow, now time.Time) string {
	if w == nil {
		return notAvailable
	}
	return fmt.Sprintf("%s (%s)", FormatUtilization(w), FormatReset(w, now))
}

// FormatUtilization renders only the percentage part of a window. Range
// windows render "min%-max%" unless both ends round to the same value.
func FormatUtilization(w *UsageWindow) string {
	if w == nil {
		return notAvailable
	}
	if w.HasRange() {
		lo := fmt.Sprintf("%.1f", *w.MinUtilization)
		hi := fmt.Sprintf("%.1f", *w.MaxUtilization)
		if lo == hi {
			return lo + "%"
		}
		return lo + "%-" + hi + "%"
	}
	return fmt.Sprintf("%.1f%%", w.Utilization)
}

// FormatReset renders the time until the window resets, or "N/A" when unknown.
func FormatReset(w *UsageWindow, now time.Time) string {
	if w == nil || w.ResetAt == nil {
		return notAvailable
	}
	return FormatDuration(w.ResetAt.Sub(now))
}
