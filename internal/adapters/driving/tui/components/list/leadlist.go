// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bfreelanceseo/MapScraperPro/internal/adapters/driving/tui/styles"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
)

const notAvailable = "N/A"

// LeadList displays leads as a navigable name/phone table.
type LeadList struct {
	leads    []domain.Lead
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewLeadList creates a new lead list component.
func NewLeadList(s *styles.Styles) *LeadList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &LeadList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the lead list.
func (r *LeadList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *LeadList) Update(msg tea.Msg) (*LeadList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		case "home", "g":
			r.selected = 0
		case "end", "G":
			if len(r.leads) > 0 {
				r.selected = len(r.leads) - 1
			}
		}
	}
	return r, nil
}

// View renders the lead table followed by the selected lead's details.
func (r *LeadList) View() string {
	if len(r.leads) == 0 {
		return r.styles.Muted.Render("No results")
	}

	nameWidth := r.nameWidth()
	lines := make([]string, 0, len(r.leads)+6)
	lines = append(lines,
		r.styles.TableHeader.Render(fmt.Sprintf("  %-4s%-*s  %s", "#", nameWidth, "Name", "Phone")))

	// Header, blank line and the detail block take six lines.
	visibleCount := r.height - 6
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(r.leads) {
		end = len(r.leads)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderRow(i, nameWidth))
	}

	lines = append(lines, "", r.renderDetails())
	return strings.Join(lines, "\n")
}

func (r *LeadList) nameWidth() int {
	w := r.width - 30
	if w < 12 {
		w = 12
	}
	if w > 48 {
		w = 48
	}
	return w
}

func (r *LeadList) renderRow(index int, nameWidth int) string {
	lead := r.leads[index]

	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	name := truncate(lead.Name(), nameWidth)
	if name == "" {
		name = "(unnamed)"
	}
	prefix := fmt.Sprintf("%s%-4d%-*s  ", indicator, index+1, nameWidth, name)

	phone := lead.Phone()
	var phoneCell string
	if phone == "" || phone == notAvailable {
		phoneCell = r.styles.Muted.Render(notAvailable)
	} else {
		phoneCell = r.styles.Normal.Render(phone)
	}

	if index == r.selected {
		return r.styles.Selected.Render(prefix) + phoneCell
	}
	return r.styles.Normal.Render(prefix) + phoneCell
}

func (r *LeadList) renderDetails() string {
	lead := r.SelectedLead()
	if lead == nil {
		return ""
	}

	rating := orNA(lead.Rating())
	if reviews := lead.Reviews(); reviews != "" {
		rating = fmt.Sprintf("%s (%s reviews)", rating, reviews)
	}

	rows := []string{
		r.styles.Muted.Render("Address: ") + orNA(lead.Address()),
		r.styles.Muted.Render("Rating:  ") + rating,
		r.styles.Muted.Render("Website: ") + orNA(lead.Website()),
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// SetLeads replaces the list contents and keeps the selection in range.
func (r *LeadList) SetLeads(leads []domain.Lead) {
	r.leads = leads
	if r.selected >= len(leads) {
		r.selected = 0
	}
}

// Leads returns the current leads.
func (r *LeadList) Leads() []domain.Lead {
	return r.leads
}

// Selected returns the index of the selected lead.
func (r *LeadList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *LeadList) SetSelected(index int) {
	if index >= 0 && index < len(r.leads) {
		r.selected = index
	}
}

// SelectedLead returns the currently selected lead, or nil if none.
func (r *LeadList) SelectedLead() *domain.Lead {
	if len(r.leads) == 0 || r.selected < 0 || r.selected >= len(r.leads) {
		return nil
	}
	return &r.leads[r.selected]
}

// MoveUp moves selection up.
func (r *LeadList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *LeadList) MoveDown() {
	if r.selected < len(r.leads)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *LeadList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Width returns the current width.
func (r *LeadList) Width() int {
	return r.width
}

// Height returns the current height.
func (r *LeadList) Height() int {
	return r.height
}

// Count returns the number of leads.
func (r *LeadList) Count() int {
	return len(r.leads)
}

// IsEmpty returns whether the list is empty.
func (r *LeadList) IsEmpty() bool {
	return len(r.leads) == 0
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
