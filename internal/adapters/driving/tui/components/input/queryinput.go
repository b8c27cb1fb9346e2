// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bfreelanceseo/MapScraperPro/internal/adapters/driving/tui/styles"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
)

// QueryInput is the lead search form: free-text query plus category and
// "near me" toggles.
type QueryInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	category  domain.Category
	nearMe    bool
	width     int
}

// NewQueryInput creates a new query input component.
func NewQueryInput(s *styles.Styles) *QueryInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "e.g. Coworking spaces in Austin"
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 50

	return &QueryInput{
		textinput: ti,
		styles:    s,
		category:  domain.CategoryAll,
		width:     50,
	}
}

// Init initialises the query input.
func (s *QueryInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (s *QueryInput) Update(msg tea.Msg) (*QueryInput, tea.Cmd) {
	var cmd tea.Cmd
	s.textinput, cmd = s.textinput.Update(msg)
	return s, cmd
}

// View renders the query line and the filter chips beneath it.
func (s *QueryInput) View() string {
	label := s.styles.Title.Render("Search: ")
	field := s.styles.InputField.Render(s.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	line := lipgloss.JoinHorizontal(lipgloss.Center, label, field)

	location := "Anywhere"
	if s.nearMe {
		location = "Near me"
	}
	chips := lipgloss.JoinHorizontal(lipgloss.Top,
		s.styles.Muted.Render("Category "),
		s.styles.Chip.Render(s.category.String()),
		s.styles.Muted.Render("  Location "),
		s.styles.Chip.Render(location),
	)

	return lipgloss.JoinVertical(lipgloss.Left, line, chips)
}

// Request builds a search request from the current form state.
func (s *QueryInput) Request() domain.SearchRequest {
	return domain.SearchRequest{
		Query:       s.textinput.Value(),
		Category:    s.category.String(),
		UseLocation: s.nearMe,
	}
}

// Value returns the current query text.
func (s *QueryInput) Value() string {
	return s.textinput.Value()
}

// SetValue sets the query text.
func (s *QueryInput) SetValue(value string) {
	s.textinput.SetValue(value)
}

// Category returns the selected category.
func (s *QueryInput) Category() domain.Category {
	return s.category
}

// SetCategory selects a category.
func (s *QueryInput) SetCategory(c domain.Category) {
	s.category = c
}

// CycleCategory advances to the next category, wrapping at the end.
func (s *QueryInput) CycleCategory() {
	s.category = s.category.Next()
}

// NearMe reports whether the search uses the current location.
func (s *QueryInput) NearMe() bool {
	return s.nearMe
}

// SetNearMe sets the "near me" toggle.
func (s *QueryInput) SetNearMe(on bool) {
	s.nearMe = on
}

// ToggleNearMe flips the "near me" toggle.
func (s *QueryInput) ToggleNearMe() {
	s.nearMe = !s.nearMe
}

// Focus sets focus on the input.
func (s *QueryInput) Focus() tea.Cmd {
	return s.textinput.Focus()
}

// Blur removes focus from the input.
func (s *QueryInput) Blur() {
	s.textinput.Blur()
}

// Focused returns whether the input is focused.
func (s *QueryInput) Focused() bool {
	return s.textinput.Focused()
}

// SetWidth sets the width of the input.
func (s *QueryInput) SetWidth(width int) {
	s.width = width
	// Account for label and padding
	inputWidth := width - 14
	if inputWidth < 20 {
		inputWidth = 20
	}
	s.textinput.Width = inputWidth
}

// Width returns the current width.
func (s *QueryInput) Width() int {
	return s.width
}

// Reset clears the query text. Filters are kept.
func (s *QueryInput) Reset() {
	s.textinput.Reset()
}
