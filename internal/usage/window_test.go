package usage

import (
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func at(d time.Duration) *time.Time {
	t := testNow.Add(d)
	return &t
}

func f64(v float64) *float64 { return &v }

func TestFormatWindow_Absent(t *testing.T) {
	if got := FormatWindow(nil, testNow); got != "N/A" {
		t.Errorf("FormatWindow(nil) = %q, want N/A", got)
	}
}

func TestFormatWindow_ResetNow(t *testing.T) {
	w := &UsageWindow{Utilization: 12.34, ResetAt: at(0)}
	if got := FormatWindow(w, testNow); got != "12.3% (now)" {
		t.Errorf("FormatWindow = %q, want %q", got, "12.3% (now)")
	}
}

func TestFormatWindow_UnknownReset(t *testing.T) {
	w := &UsageWindow{Utilization: 50}
	if got := FormatWindow(w, testNow); got != "50.0% (N/A)" {
		t.Errorf("FormatWindow = %q, want %q", got, "50.0% (N/A)")
	}
}

func TestFormatWindow_FutureReset(t *testing.T) {
	w := &UsageWindow{Utilization: 101.26, ResetAt: at(3*time.Hour + 5*time.Minute + 20*time.Second)}
	if got := FormatWindow(w, testNow); got != "101.3% (3h 5m)" {
		t.Errorf("FormatWindow = %q, want %q", got, "101.3% (3h 5m)")
	}
}

func TestFormatWindow_EqualRangeCollapses(t *testing.T) {
	w := &UsageWindow{Utilization: 10, MinUtilization: f64(10.0), MaxUtilization: f64(10.0)}
	if got := FormatUtilization(w); got != "10.0%" {
		t.Errorf("FormatUtilization = %q, want 10.0%%", got)
	}
}

func TestFormatWindow_RangeRoundsBeforeCompare(t *testing.T) {
	w := &UsageWindow{MinUtilization: f64(10.01), MaxUtilization: f64(10.04)}
	if got := FormatUtilization(w); got != "10.0%" {
		t.Errorf("FormatUtilization = %q, want 10.0%%", got)
	}
}

func TestFormatWindow_Range(t *testing.T) {
	w := &UsageWindow{
		Utilization:    88,
		MinUtilization: f64(5.0),
		MaxUtilization: f64(88.0),
		ResetAt:        at(2 * time.Hour),
	}
	if got := FormatUtilization(w); got != "5.0%-88.0%" {
		t.Errorf("FormatUtilization = %q, want 5.0%%-88.0%%", got)
	}
	if got := FormatWindow(w, testNow); got != "5.0%-88.0% (2h 0m)" {
		t.Errorf("FormatWindow = %q, want %q", got, "5.0%-88.0% (2h 0m)")
	}
}

func TestFormatWindow_OnlyOneRangeBoundUsesUtilization(t *testing.T) {
	w := &UsageWindow{Utilization: 42, MinUtilization: f64(1)}
	if got := FormatUtilization(w); got != "42.0%" {
		t.Errorf("FormatUtilization = %q, want 42.0%%", got)
	}
}

func TestFormatWindow_Idempotent(t *testing.T) {
	w := &UsageWindow{Utilization: 33.3, ResetAt: at(26 * time.Hour)}
	first := FormatWindow(w, testNow)
	second := FormatWindow(w, testNow)
	if first != second {
		t.Errorf("FormatWindow not idempotent: %q vs %q", first, second)
	}
}
