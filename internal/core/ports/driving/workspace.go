package driving

import (
	"context"
	"time"
)

// Workspace is one search session together with its export sinks.
type Workspace interface {
	LeadSearchService
	ExportService

	// ID identifies the workspace within its manager.
	ID() string
}

// WorkspaceManager owns independent workspaces that may run concurrently.
type WorkspaceManager interface {
	// Open creates a workspace with a fresh, empty lead store.
	Open(ctx context.Context) (Workspace, error)

	// Get returns an open workspace. Returns domain.ErrSessionNotFound for
	// unknown IDs.
	Get(id string) (Workspace, error)

	// Close discards a workspace and releases its store.
	Close(id string) error

	// List returns the IDs of open workspaces.
	List() []string
}

// WorkspacePruner discards idle workspaces in the background.
type WorkspacePruner interface {
	// Start runs the prune loop until ctx is cancelled or Stop is called.
	Start(ctx context.Context, interval time.Duration) error

	// Stop ends the prune loop.
	Stop() error
}
