// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
)

// SearchRequested is a command to start a new lead search.
type SearchRequested struct {
	Request domain.SearchRequest
}

// LeadsLoaded carries the outcome of a search or load-more back to the model.
// Err may be a soft condition (domain.IsSoft), in which case Leads still
// holds the accumulated results.
type LeadsLoaded struct {
	Params domain.SearchParameters
	Leads  []domain.Lead
	Added  int
	Raw    string
	More   bool
	Err    error
}

// LeadsCleared signals the session was cleared.
type LeadsCleared struct {
	Err error
}

// ExportCompleted signals a CSV export finished.
// Path is empty for clipboard exports.
type ExportCompleted struct {
	Path      string
	Clipboard bool
	Err       error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewSearch is the lead search and results view.
	ViewSearch
	// ViewHelp is the help/keybindings view.
	ViewHelp
	// ViewSettings is the settings view.
	ViewSettings
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewSearch:
		return "search"
	case ViewHelp:
		return "help"
	case ViewSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals settings were saved.
type SettingsSaved struct {
	Err error
}

// SettingsValidated carries the result of a provider connectivity check.
type SettingsValidated struct {
	Err error
}
