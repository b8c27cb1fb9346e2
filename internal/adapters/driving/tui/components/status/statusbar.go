// Package status renders the one-line status bar under the search view.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/bfreelanceseo/MapScraperPro/internal/adapters/driving/tui/keymap"
	"github.com/bfreelanceseo/MapScraperPro/internal/adapters/driving/tui/styles"
)

// State is what the search view is doing.
type State string

const (
	StateReady     State = "ready"
	StateInput     State = "input"
	StateSearching State = "searching"
	StateLoading   State = "loading"
	StateWarning   State = "warning"
	StateSuccess   State = "success"
	StateError     State = "error"
	StateHelp      State = "help"
	StateResults   State = "results"
)

// busyText is shown while a fetch is running.
var busyText = map[State]string{
	StateSearching: "Searching...",
	StateLoading:   "Loading more...",
}

// Bar shows the lead count or the latest notice on the left and the key
// hints for the current mode on the right.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	message string
	leads   int
	width   int
}

// NewBar creates a status bar. Nil arguments use the defaults.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Bar{styles: s, keymap: km, state: StateReady, width: 80}
}

// View renders the bar padded to its width.
func (s *Bar) View() string {
	left, right := s.summary(), s.hints()

	gap := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return s.styles.StatusBar.Width(s.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (s *Bar) summary() string {
	if text, ok := busyText[s.state]; ok {
		return s.styles.Muted.Render(text)
	}

	switch s.state {
	case StateWarning:
		return s.styles.Warning.Render(s.message)
	case StateSuccess:
		return s.styles.Success.Render(s.message)
	case StateError:
		if s.message == "" {
			return s.styles.Error.Render("Error")
		}
		return s.styles.Error.Render("Error: " + s.message)
	case StateHelp:
		return s.styles.Normal.Render("Help")
	}

	switch s.leads {
	case 0:
		return s.styles.Muted.Render("Ready")
	case 1:
		return s.styles.Normal.Render("Found 1 result")
	default:
		return s.styles.Normal.Render(fmt.Sprintf("Found %d results", s.leads))
	}
}

func (s *Bar) hints() string {
	var bindings []key.Binding
	switch {
	case s.state == StateInput:
		bindings = s.keymap.InputHelp()
	case s.leads > 0 && s.state != StateHelp:
		bindings = s.keymap.ResultsHelp()
	default:
		bindings = s.keymap.ShortHelp()
	}

	parts := make([]string, len(bindings))
	for i, b := range bindings {
		h := b.Help()
		parts[i] = h.Key + ": " + h.Desc
	}
	return s.styles.Muted.Render(strings.Join(parts, " | "))
}

// SetState changes the state and keeps the message.
func (s *Bar) SetState(state State) { s.state = state }

// State returns the current state.
func (s *Bar) State() State { return s.state }

// Message returns the last notice.
func (s *Bar) Message() string { return s.message }

// Notify sets state and message together.
func (s *Bar) Notify(state State, message string) {
	s.state = state
	s.message = message
}

// SetResultCount sets the number of collected leads.
func (s *Bar) SetResultCount(n int) { s.leads = n }

// ResultCount returns the number of collected leads.
func (s *Bar) ResultCount() int { return s.leads }

// SetWidth sets the rendered width.
func (s *Bar) SetWidth(width int) { s.width = width }

// Width returns the rendered width.
func (s *Bar) Width() int { return s.width }

// Clear returns the bar to the empty ready state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.leads = 0
}
