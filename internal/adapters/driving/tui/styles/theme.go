// Package styles holds the colour palette and lipgloss styles of the lead TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the colour palette.
type Theme struct {
	Primary   lipgloss.Color // titles, selection
	Secondary lipgloss.Color // chips, subtitles
	Surface   lipgloss.Color // chip text, status bar background
	Text      lipgloss.Color
	Muted     lipgloss.Color // hints, missing values
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Border    lipgloss.Color
}

// DefaultTheme is a blue and teal palette on slate.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:   lipgloss.Color("#2563EB"),
		Secondary: lipgloss.Color("#14B8A6"),
		Surface:   lipgloss.Color("#0F172A"),
		Text:      lipgloss.Color("#E2E8F0"),
		Muted:     lipgloss.Color("#64748B"),
		Success:   lipgloss.Color("#22C55E"),
		Warning:   lipgloss.Color("#F59E0B"),
		Error:     lipgloss.Color("#EF4444"),
		Border:    lipgloss.Color("#334155"),
	}
}

// Styles are the rendered styles shared by all views.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Help     lipgloss.Style

	// Selected marks the highlighted lead or menu row.
	Selected lipgloss.Style

	Error   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style

	// InputField frames the query box.
	InputField lipgloss.Style
	StatusBar  lipgloss.Style

	// Chip renders the category and location badges next to the query.
	Chip lipgloss.Style

	// TableHeader renders the "#, Name, Phone" header of the lead table.
	TableHeader lipgloss.Style
}

// NewStyles builds styles from a theme. A nil theme uses DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	fg := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}

	return &Styles{
		theme: theme,

		Title:    fg(theme.Primary).Bold(true),
		Subtitle: fg(theme.Secondary).Bold(true),
		Normal:   fg(theme.Text),
		Muted:    fg(theme.Muted),
		Help:     fg(theme.Muted),

		Selected: fg(theme.Text).Background(theme.Primary).Bold(true),

		Error:   fg(theme.Error),
		Success: fg(theme.Success),
		Warning: fg(theme.Warning),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
		StatusBar: fg(theme.Muted).Background(theme.Surface).Padding(0, 1),

		Chip:        fg(theme.Surface).Background(theme.Secondary).Padding(0, 1),
		TableHeader: fg(theme.Muted).Bold(true).Underline(true),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the palette the styles were built from.
func (s *Styles) Theme() *Theme {
	return s.theme
}
