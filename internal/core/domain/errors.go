package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotConfigured indicates the retrieval service is missing a required
	// credential or setting. Fatal to any search attempt.
	ErrNotConfigured = errors.New("retrieval service not configured")

	// ErrRetrievalFailed indicates the retrieval call itself failed.
	// The caller may retry.
	ErrRetrievalFailed = errors.New("retrieval failed")

	// ErrNoActiveSession indicates a follow-up fetch without a started search.
	ErrNoActiveSession = errors.New("no active search session")

	// ErrFetchInProgress indicates a retrieval for the session is still pending.
	ErrFetchInProgress = errors.New("fetch already in progress")

	// ErrUnsupportedType indicates an unknown provider or backend.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrSessionNotFound indicates an unknown or expired workspace ID.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionLimit indicates too many workspaces are open.
	ErrSessionLimit = errors.New("too many open sessions")

	// Soft conditions. These are advisories, not failures, and never clear
	// already-accumulated results.

	// ErrEmptyResult indicates the first fetch parsed no leads.
	ErrEmptyResult = errors.New("no structured data could be parsed from the results")

	// ErrNoNewResults indicates a follow-up fetch found only known leads.
	ErrNoNewResults = errors.New("no additional unique results were found")

	// ErrStaleResponse indicates a response arrived after the session was
	// cleared or replaced and was discarded.
	ErrStaleResponse = errors.New("response discarded: session changed")
)

// IsSoft reports whether err is an advisory condition rather than a failure.
func IsSoft(err error) bool {
	return errors.Is(err, ErrEmptyResult) ||
		errors.Is(err, ErrNoNewResults) ||
		errors.Is(err, ErrStaleResponse)
}
