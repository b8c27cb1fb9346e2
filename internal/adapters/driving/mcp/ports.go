package mcp

import (
	"github.com/bfreelanceseo/MapScraperPro/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Workspaces opens and tracks search sessions.
	Workspaces driving.WorkspaceManager

	// Settings exposes the active configuration. Optional.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Workspaces == nil {
		return ErrMissingWorkspaces
	}
	return nil
}
