package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the viewer
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Live    lipgloss.Color
	Reserve lipgloss.Color
	Cursor  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Error   lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:    "cyberpunk",
		Primary: lipgloss.Color("#ff00ff"),
		Live:    lipgloss.Color("#00ffff"),
		Reserve: lipgloss.Color("#444466"),
		Cursor:  lipgloss.Color("#ffff00"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666688"),
		Error:   lipgloss.Color("#ff4444"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"),
		Live:    lipgloss.Color("#88ff88"),
		Reserve: lipgloss.Color("#005500"),
		Cursor:  lipgloss.Color("#ffff00"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#007700"),
		Error:   lipgloss.Color("#ff0000"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Primary: lipgloss.Color("#ffffff"),
		Live:    lipgloss.Color("#cccccc"),
		Reserve: lipgloss.Color("#555555"),
		Cursor:  lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Error:   lipgloss.Color("#ff0000"),
	}
)

var AllThemes = []Theme{ThemeCyberpunk, ThemeRetroGreen, ThemeMinimal}

type styles struct {
	title, live, reserve, cursor, label, value, err, help lipgloss.Style
}

func (t Theme) styles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(t.Primary).MarginBottom(1),
		live:    lipgloss.NewStyle().Foreground(t.Live),
		reserve: lipgloss.NewStyle().Foreground(t.Reserve),
		cursor:  lipgloss.NewStyle().Bold(true).Foreground(t.Cursor),
		label:   lipgloss.NewStyle().Foreground(t.Muted),
		value:   lipgloss.NewStyle().Bold(true).Foreground(t.Text),
		err:     lipgloss.NewStyle().Bold(true).Foreground(t.Error),
		help:    lipgloss.NewStyle().Foreground(t.Muted).Italic(true).MarginTop(1),
	}
}
