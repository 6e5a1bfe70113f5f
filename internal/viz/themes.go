package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the color scheme of the live view.
type Theme struct {
	Name    string
	Bodies  lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Warning lipgloss.Color
}

var (
	ThemeNebula = Theme{
		Name:    "nebula",
		Bodies:  lipgloss.Color("#c3a6ff"),
		Accent:  lipgloss.Color("#ff7edb"),
		Text:    lipgloss.Color("#f4f0ff"),
		Muted:   lipgloss.Color("#6e6a8e"),
		Warning: lipgloss.Color("#ff8800"),
	}

	ThemePhosphor = Theme{
		Name:    "phosphor",
		Bodies:  lipgloss.Color("#00ff00"),
		Accent:  lipgloss.Color("#ccffcc"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#007700"),
		Warning: lipgloss.Color("#ffff00"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Bodies:  lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Warning: lipgloss.Color("#ffaa00"),
	}

	ThemeSolar = Theme{
		Name:    "solar",
		Bodies:  lipgloss.Color("#feca57"),
		Accent:  lipgloss.Color("#ff9ff3"),
		Text:    lipgloss.Color("#fff5f5"),
		Muted:   lipgloss.Color("#8b6b8c"),
		Warning: lipgloss.Color("#ffc048"),
	}

	CurrentTheme = ThemeNebula

	Themes = []Theme{
		ThemeNebula,
		ThemePhosphor,
		ThemeMinimal,
		ThemeSolar,
	}
)

// GetTheme returns a theme by name, falling back to the default.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeNebula
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	names := ThemeNames()
	for i, name := range names {
		if name == CurrentTheme.Name {
			SetTheme(names[(i+1)%len(names)])
			return
		}
	}
}
