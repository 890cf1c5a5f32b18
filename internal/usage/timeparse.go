package usage

import (
	"math"
	"strings"
	"time"
)

var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseISO8601 parses an ISO-8601 timestamp. Returns nil if unparseable.
// Zone-less inputs are taken as UTC.
func ParseISO8601(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// ParseEpochMs converts Unix milliseconds to a time. Returns nil for NaN,
// infinities and non-positive values.
func ParseEpochMs(ms float64) *time.Time {
	if math.IsNaN(ms) || math.IsInf(ms, 0) || ms <= 0 {
		return nil
	}
	t := time.UnixMilli(int64(ms)).UTC()
	return &t
}

// ParseEpochSeconds converts Unix seconds to a time. Returns nil for <= 0.
func ParseEpochSeconds(s int64) *time.Time {
	if s <= 0 {
		return nil
	}
	t := time.Unix(s, 0).UTC()
	return &t
}
