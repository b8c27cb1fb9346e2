package driving

import (
	"context"

	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
)

// LeadSearchService runs one incremental lead search session.
//
// Soft conditions (domain.IsSoft) are returned as errors but never discard
// accumulated leads.
type LeadSearchService interface {
	// Start begins a new session, discarding any previous one, and fetches
	// the first batch. Returns the frozen parameters.
	Start(ctx context.Context, req domain.SearchRequest) (domain.SearchParameters, error)

	// LoadMore fetches another batch with the frozen parameters, excluding
	// names already collected. Returns the number of leads added.
	LoadMore(ctx context.Context) (int, error)

	// Clear ends the session and empties its results.
	Clear(ctx context.Context) error

	// Leads returns the accumulated leads in insertion order.
	Leads(ctx context.Context) ([]domain.Lead, error)

	// Parameters returns the frozen parameters and whether a session is active.
	Parameters() (domain.SearchParameters, bool)

	// RawResponse returns every raw model response of the session.
	RawResponse() string
}
