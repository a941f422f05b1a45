// Package styles holds the colours and lipgloss styles shared by the
// account prompt and the CLI's terminal output.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the colour palette.
type Theme struct {
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Border  lipgloss.Color
}

// DefaultTheme returns the default palette.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:  lipgloss.Color("#2D8CFF"), // Zoom-ish blue
		Text:    lipgloss.Color("#E6E6E6"),
		Muted:   lipgloss.Color("#8A8F98"),
		Success: lipgloss.Color("#5FD068"),
		Warning: lipgloss.Color("#F5C451"),
		Error:   lipgloss.Color("#F0616D"),
		Border:  lipgloss.Color("#4A4F5A"),
	}
}

// Styles are pre-built lipgloss styles.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Label    lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Help     lipgloss.Style

	// Box frames the account prompt.
	Box lipgloss.Style
}

// NewStyles builds styles from theme. A nil theme uses DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title:    lipgloss.NewStyle().Bold(true).Foreground(theme.Accent),
		Label:    lipgloss.NewStyle().Bold(true).Foreground(theme.Text),
		Normal:   lipgloss.NewStyle().Foreground(theme.Text),
		Muted:    lipgloss.NewStyle().Foreground(theme.Muted),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(theme.Accent),
		Success:  lipgloss.NewStyle().Foreground(theme.Success),
		Warning:  lipgloss.NewStyle().Foreground(theme.Warning),
		Error:    lipgloss.NewStyle().Foreground(theme.Error),
		Help:     lipgloss.NewStyle().Foreground(theme.Muted).Italic(true),

		Box: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(1, 2),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(nil)
}

// Theme returns the palette behind these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Outcome styles a join outcome word: green for success, red otherwise.
func (s *Styles) Outcome(success bool, text string) string {
	if success {
		return s.Success.Render(text)
	}
	return s.Error.Render(text)
}
