package viz

import "github.com/charmbracelet/lipgloss"

// Theme colours the status bar. The fire itself keeps its palette.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

var (
	ThemeEmber = Theme{
		Name:    "ember",
		Primary: lipgloss.Color("#ff8800"),
		Accent:  lipgloss.Color("#ffd700"),
		Text:    lipgloss.Color("#fff5e6"),
		Muted:   lipgloss.Color("#8b5a2b"),
		Success: lipgloss.Color("#ffcc00"),
		Warning: lipgloss.Color("#ff6b00"),
		Error:   lipgloss.Color("#ff2200"),
	}

	ThemeAsh = Theme{
		Name:    "ash",
		Primary: lipgloss.Color("#cccccc"),
		Accent:  lipgloss.Color("#ffffff"),
		Text:    lipgloss.Color("#e0e0e0"),
		Muted:   lipgloss.Color("#666666"),
		Success: lipgloss.Color("#aaffaa"),
		Warning: lipgloss.Color("#ffaa00"),
		Error:   lipgloss.Color("#ff4444"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"),
		Accent:  lipgloss.Color("#88ff88"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Success: lipgloss.Color("#88ff88"),
		Warning: lipgloss.Color("#ffff00"),
		Error:   lipgloss.Color("#ff0000"),
	}

	Themes = []Theme{ThemeEmber, ThemeAsh, ThemeRetroGreen}
)

// GetTheme returns a theme by name, ember when unknown.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeEmber
}

// NextTheme returns the theme after t, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
