package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/qburn/internal/cli/theme"
	"github.com/theirongolddev/qburn/internal/usage"
)

// Table represents a bordered text table for CLI output.
// Cells may carry ANSI styling; widths are measured on visible runes.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int               // optional column widths, auto-calculated if nil
	Align   []lipgloss.Position // optional per-column alignment, first column left otherwise right
}

// SetColor toggles ANSI color output for everything rendered by this package.
func SetColor(enabled bool) {
	if enabled {
		lipgloss.SetColorProfile(termenv.ColorProfile())
		return
	}
	lipgloss.SetColorProfile(termenv.Ascii)
}

func borderStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Active.Border)
}

func headerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(theme.Active.Accent)
}

func valueStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Active.TextPrimary)
}

func mutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Active.TextMuted)
}

func dimStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Active.TextDim)
}

func errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Active.Red)
}

func warnStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Active.Yellow)
}

// PaceStyle maps a pace verdict onto the active theme.
func PaceStyle(c usage.PaceColor) lipgloss.Style {
	switch c {
	case usage.PaceFavorable:
		return lipgloss.NewStyle().Foreground(theme.Active.Green)
	case usage.PaceWarning:
		return lipgloss.NewStyle().Foreground(theme.Active.Orange)
	default:
		return dimStyle()
	}
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	width := 55
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Active.Border).
		Width(width).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(lipgloss.NewStyle().Bold(true).Foreground(theme.Active.TextPrimary).Render(title))
}

// RenderTable renders a bordered table with headers and rows.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}

	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
	} else {
		for i, h := range t.Headers {
			widths[i] = max(widths[i], lipgloss.Width(h))
		}
		for _, row := range t.Rows {
			for i, cell := range row {
				if i < numCols {
					widths[i] = max(widths[i], lipgloss.Width(cell))
				}
			}
		}
	}

	bs := borderStyle()
	rule := func(left, mid, right string) string {
		var b strings.Builder
		b.WriteString(bs.Render(left))
		for i, w := range widths {
			b.WriteString(bs.Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(bs.Render(mid))
			}
		}
		b.WriteString(bs.Render(right))
		b.WriteString("\n")
		return b.String()
	}

	var b strings.Builder

	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle().Render(t.Title))
		b.WriteString("\n")
	}

	b.WriteString(rule("╭", "┬", "╮"))

	if len(t.Headers) > 0 {
		hs := headerStyle()
		b.WriteString(bs.Render("│"))
		for i, h := range t.Headers {
			b.WriteString(" ")
			b.WriteString(hs.Render(pad(h, widths[i], lipgloss.Left)))
			b.WriteString(" ")
			if i < numCols-1 {
				b.WriteString(bs.Render("│"))
			}
		}
		b.WriteString(bs.Render("│"))
		b.WriteString("\n")
		b.WriteString(rule("├", "┼", "┤"))
	}

	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == "---" {
			b.WriteString(rule("├", "┼", "┤"))
			continue
		}

		b.WriteString(bs.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = Truncate(row[i], widths[i])
			}
			b.WriteString(" ")
			b.WriteString(pad(cell, widths[i], t.align(i)))
			b.WriteString(" ")
			if i < numCols-1 {
				b.WriteString(bs.Render("│"))
			}
		}
		b.WriteString(bs.Render("│"))
		b.WriteString("\n")
	}

	b.WriteString(rule("╰", "┴", "╯"))

	return b.String()
}

func (t Table) align(col int) lipgloss.Position {
	if col < len(t.Align) {
		return t.Align[col]
	}
	if col == 0 {
		return lipgloss.Left
	}
	return lipgloss.Right
}

// pad fills s with spaces up to width visible cells.
func pad(s string, width int, pos lipgloss.Position) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	if pos == lipgloss.Right {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}

// UsageBar renders a utilization percentage as a fixed-width block bar,
// colored by how close it is to the limit.
func UsageBar(pct float64, width int) string {
	if width <= 0 {
		return ""
	}
	frac := max(0, min(pct/100, 1))
	filled := int(frac * float64(width))

	color := theme.Active.Green
	switch {
	case frac >= 0.8:
		color = theme.Active.Red
	case frac >= 0.5:
		color = theme.Active.Orange
	}

	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		dimStyle().Render(strings.Repeat("░", width-filled))
}
