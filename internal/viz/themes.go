package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the UI colours and the three anchors of the field palette.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Muted     lipgloss.Color
	Negative  lipgloss.Color
	Zero      lipgloss.Color
	Positive  lipgloss.Color
}

var (
	ThemeRdBu = Theme{
		Name:      "rdbu",
		Primary:   lipgloss.Color("#f4a582"),
		Secondary: lipgloss.Color("#92c5de"),
		Muted:     lipgloss.Color("#888899"),
		Negative:  lipgloss.Color("#2166ac"),
		Zero:      lipgloss.Color("#f7f7f7"),
		Positive:  lipgloss.Color("#b2182b"),
	}

	ThemeCyberpunk = Theme{
		Name:      "cyberpunk",
		Primary:   lipgloss.Color("#ff00ff"),
		Secondary: lipgloss.Color("#00ffff"),
		Muted:     lipgloss.Color("#666666"),
		Negative:  lipgloss.Color("#00ffff"),
		Zero:      lipgloss.Color("#0a0a0a"),
		Positive:  lipgloss.Color("#ff00ff"),
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Primary:   lipgloss.Color("#00ff00"),
		Secondary: lipgloss.Color("#00cc00"),
		Muted:     lipgloss.Color("#005500"),
		Negative:  lipgloss.Color("#003300"),
		Zero:      lipgloss.Color("#001100"),
		Positive:  lipgloss.Color("#88ff88"),
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Primary:   lipgloss.Color("#0077be"),
		Secondary: lipgloss.Color("#00a8cc"),
		Muted:     lipgloss.Color("#4488aa"),
		Negative:  lipgloss.Color("#001a33"),
		Zero:      lipgloss.Color("#0077be"),
		Positive:  lipgloss.Color("#e0f0ff"),
	}

	CurrentTheme = ThemeRdBu

	Themes = []Theme{
		ThemeRdBu,
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeOcean,
	}
)

// GetTheme returns a theme by name, falling back to rdbu.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeRdBu
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

// NextTheme returns the theme after name in Themes, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}
