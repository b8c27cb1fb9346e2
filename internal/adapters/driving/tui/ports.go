// Package tui provides an interactive terminal user interface for mapscraper.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/bfreelanceseo/MapScraperPro/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
type Ports struct {
	// Workspaces opens the lead search session the TUI works in.
	Workspaces driving.WorkspaceManager

	// Settings manages application settings. Optional.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Workspaces == nil {
		return ErrMissingWorkspaces
	}
	return nil
}
