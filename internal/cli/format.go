// Package cli renders provider usage results for the terminal.
package cli

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/theirongolddev/qburn/internal/usage"
)

const (
	barWidth     = 10
	maxInfoWidth = 60
	highUsage    = 80.0
	notAvailable = "N/A"
)

// Headers are the usage table columns.
var Headers = []string{"Provider", "Plan", "Primary", "Secondary", "Tertiary", "Pace", "Info"}

var columnAlign = []lipgloss.Position{
	lipgloss.Left, lipgloss.Left, lipgloss.Right, lipgloss.Right, lipgloss.Right, lipgloss.Left, lipgloss.Left,
}

// Truncate shortens s to width visible cells, keeping ANSI sequences intact.
func Truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}

// WindowCell renders one window slot, highlighting high utilization.
func WindowCell(w *usage.UsageWindow, now time.Time) string {
	if w == nil {
		return dimStyle().Render(notAvailable)
	}
	s := usage.FormatWindow(w, now)
	if w.Utilization >= highUsage {
		return warnStyle().Render(s)
	}
	return valueStyle().Render(s)
}

// PaceText picks the paces to show for a result: the longer windows first,
// falling back to the primary window when neither has a pace.
func PaceText(p usage.ProviderUsage, now time.Time) []string {
	if p.Failed() {
		return nil
	}
	var paces []string
	for _, w := range []*usage.UsageWindow{p.SecondaryWindow, p.TertiaryWindow} {
		if pace := usage.Pace(w, now); pace != notAvailable {
			paces = append(paces, pace)
		}
	}
	if len(paces) == 0 {
		if pace := usage.Pace(p.PrimaryWindow, now); pace != notAvailable {
			paces = append(paces, pace)
		}
	}
	return paces
}

// PaceCell renders the pace column with each verdict in its own color.
func PaceCell(p usage.ProviderUsage, now time.Time) string {
	paces := PaceText(p, now)
	if len(paces) == 0 {
		return dimStyle().Render(notAvailable)
	}
	styled := make([]string, len(paces))
	for i, pace := range paces {
		styled[i] = PaceStyle(usage.GetPaceColor(pace)).Render(pace)
	}
	return strings.Join(styled, dimStyle().Render(", "))
}

// UsageRows builds table rows for results. Sub-rows follow their parent
// when showSubRows is set.
func UsageRows(results []usage.ProviderUsage, now time.Time, showSubRows bool) [][]string {
	name := headerStyle()
	rows := make([][]string, 0, len(results))
	for _, p := range results {
		if p.Failed() {
			msg := p.Error
			if p.ErrorCode != "" {
				msg = string(p.ErrorCode) + ": " + msg
			}
			rows = append(rows, []string{
				name.Render(p.Provider),
				"", "", "", "", "",
				errorStyle().Render(Truncate(msg, maxInfoWidth)),
			})
			continue
		}

		rows = append(rows, []string{
			name.Render(p.Provider),
			mutedStyle().Render(p.Plan),
			WindowCell(p.PrimaryWindow, now),
			WindowCell(p.SecondaryWindow, now),
			WindowCell(p.TertiaryWindow, now),
			PaceCell(p, now),
			mutedStyle().Render(Truncate(p.AdditionalInfo, maxInfoWidth)),
		})

		if !showSubRows {
			continue
		}
		for _, sr := range p.SubRows {
			rows = append(rows, []string{
				dimStyle().Render("  └ " + sr.Label),
				subRowBar(sr.Window),
				WindowCell(sr.Window, now),
				"", "", "", "",
			})
		}
	}
	return rows
}

// UsageTable assembles the full usage table.
func UsageTable(results []usage.ProviderUsage, now time.Time, showSubRows bool) Table {
	return Table{
		Headers: Headers,
		Rows:    UsageRows(results, now, showSubRows),
		Align:   columnAlign,
	}
}

func subRowBar(w *usage.UsageWindow) string {
	if w == nil {
		return ""
	}
	return UsageBar(w.Utilization, barWidth)
}
