package driven

import (
	"context"

	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
)

// LeadStore holds the accumulated leads of one search session.
// Each mutation is atomic with respect to readers: a Snapshot never observes
// a partially applied Append or Reset.
type LeadStore interface {
	// Snapshot returns a copy of all leads in insertion order.
	Snapshot(ctx context.Context) ([]domain.Lead, error)

	// Append adds leads to the end of the collection.
	Append(ctx context.Context, leads []domain.Lead) error

	// Reset removes all leads.
	Reset(ctx context.Context) error

	// Len returns the number of stored leads.
	Len(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}

// LeadStoreFactory creates a fresh, empty store for a new session.
type LeadStoreFactory func() (LeadStore, error)
