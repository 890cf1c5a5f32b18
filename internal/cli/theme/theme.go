// Package theme defines the color palettes used by qburn table output.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color roles used when rendering usage tables.
type Theme struct {
	Name        string
	Border      lipgloss.Color // table rules and corners
	TextDim     lipgloss.Color // N/A cells, hidden-row hints
	TextMuted   lipgloss.Color // plan and info columns
	TextPrimary lipgloss.Color // utilization and reset values
	Accent      lipgloss.Color // headers and provider names
	Green       lipgloss.Color // favorable pace
	Orange      lipgloss.Color // pace ahead of schedule
	Red         lipgloss.Color // errors
	Yellow      lipgloss.Color // utilization above 80%
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default theme.
var FlexokiDark = Theme{
	Name:        "flexoki-dark",
	Border:      lipgloss.Color("#575653"),
	TextDim:     lipgloss.Color("#575653"),
	TextMuted:   lipgloss.Color("#878580"),
	TextPrimary: lipgloss.Color("#FFFCF0"),
	Accent:      lipgloss.Color("#3AA99F"),
	Green:       lipgloss.Color("#879A39"),
	Orange:      lipgloss.Color("#DA702C"),
	Red:         lipgloss.Color("#D14D41"),
	Yellow:      lipgloss.Color("#D0A215"),
}

// CatppuccinMocha is a warm pastel theme.
var CatppuccinMocha = Theme{
	Name:        "catppuccin-mocha",
	Border:      lipgloss.Color("#7F849C"),
	TextDim:     lipgloss.Color("#6C7086"),
	TextMuted:   lipgloss.Color("#A6ADC8"),
	TextPrimary: lipgloss.Color("#CDD6F4"),
	Accent:      lipgloss.Color("#89B4FA"),
	Green:       lipgloss.Color("#A6E3A1"),
	Orange:      lipgloss.Color("#FAB387"),
	Red:         lipgloss.Color("#F38BA8"),
	Yellow:      lipgloss.Color("#F9E2AF"),
}

// TokyoNight is a cool blue/purple theme.
var TokyoNight = Theme{
	Name:        "tokyo-night",
	Border:      lipgloss.Color("#565F89"),
	TextDim:     lipgloss.Color("#565F89"),
	TextMuted:   lipgloss.Color("#A9B1D6"),
	TextPrimary: lipgloss.Color("#C0CAF5"),
	Accent:      lipgloss.Color("#7AA2F7"),
	Green:       lipgloss.Color("#9ECE6A"),
	Orange:      lipgloss.Color("#FF9E64"),
	Red:         lipgloss.Color("#F7768E"),
	Yellow:      lipgloss.Color("#E0AF68"),
}

// Terminal uses ANSI 16 colors only.
var Terminal = Theme{
	Name:        "terminal",
	Border:      lipgloss.Color("8"),
	TextDim:     lipgloss.Color("8"),
	TextMuted:   lipgloss.Color("7"),
	TextPrimary: lipgloss.Color("15"),
	Accent:      lipgloss.Color("6"),
	Green:       lipgloss.Color("2"),
	Orange:      lipgloss.Color("3"),
	Red:         lipgloss.Color("1"),
	Yellow:      lipgloss.Color("11"),
}

// All available themes.
var All = []Theme{FlexokiDark, CatppuccinMocha, TokyoNight, Terminal}

// Names lists the theme names in display order.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}
