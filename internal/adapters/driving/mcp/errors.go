// Package mcp provides an MCP (Model Context Protocol) server adapter for mapscraper.
// It lets AI assistants run lead searches, page through more results and
// export the collected leads as CSV.
package mcp

import "errors"

// ErrMissingWorkspaces is returned when the workspace manager is not provided.
var ErrMissingWorkspaces = errors.New("mcp: workspace manager is required")
