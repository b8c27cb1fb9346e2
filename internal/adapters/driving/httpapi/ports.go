package httpapi

import (
	"github.com/bfreelanceseo/MapScraperPro/internal/core/ports/driving"
)

// Ports aggregates the driving ports the HTTP API serves.
type Ports struct {
	// Workspaces opens and tracks search sessions.
	Workspaces driving.WorkspaceManager

	// Settings exposes the active configuration. Optional.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Workspaces == nil {
		return ErrMissingWorkspaces
	}
	return nil
}
