// Package httpapi exposes lead search sessions over a small JSON HTTP API.
package httpapi

import "errors"

// ErrMissingWorkspaces is returned when the workspace manager is not provided.
var ErrMissingWorkspaces = errors.New("httpapi: workspace manager is required")

// ErrNoAvailablePort is returned when every port in the scanned range is taken.
var ErrNoAvailablePort = errors.New("httpapi: no available port")
