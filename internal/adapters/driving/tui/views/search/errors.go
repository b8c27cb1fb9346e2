package search

import "errors"

// Error definitions for the search view.
var (
	// ErrNoWorkspace indicates that no workspace was provided.
	ErrNoWorkspace = errors.New("search workspace is required")
)
