package tui

import "errors"

// ErrMissingWorkspaces is returned when the workspace manager is not provided.
var ErrMissingWorkspaces = errors.New("tui: workspace manager is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
