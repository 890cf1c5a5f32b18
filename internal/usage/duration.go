package usage

import (
	"fmt"
	"time"
)

// FormatDuration renders the time left until a reset.
// e.g., 2d3h4m -> "2d 3h 4m", 3h5m -> "3h 5m", 90s -> "1m", <=0 -> "now"
func FormatDuration(delta time.Duration) string {
	if delta <= 0 {
		return "now"
	}

	totalMins := int64(delta / time.Minute)
	days := totalMins / (24 * 60)
	hours := (totalMins % (24 * 60)) / 60
	mins := totalMins % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, mins)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, mins)
	default:
		return fmt.Sprintf("%dm", mins)
	}
}

// FormatDurationMs is FormatDuration for a millisecond delta.
func FormatDurationMs(ms int64) string {
	return FormatDuration(time.Duration(ms) * time.Millisecond)
}
