package memory

import (
	"context"
	"sync"

	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/ports/driven"
)

// Ensure LeadStore implements the interface.
var _ driven.LeadStore = (*LeadStore)(nil)

// LeadStore is an in-memory implementation of driven.LeadStore.
// Leads are deep-copied on the way in and out.
type LeadStore struct {
	mu    sync.RWMutex
	leads []domain.Lead
}

// NewLeadStore creates a new in-memory lead store.
func NewLeadStore() *LeadStore {
	return &LeadStore{
		leads: make([]domain.Lead, 0),
	}
}

// NewLeadStoreFactory returns a factory producing independent stores.
func NewLeadStoreFactory() driven.LeadStoreFactory {
	return func() (driven.LeadStore, error) {
		return NewLeadStore(), nil
	}
}

// Snapshot returns a copy of all leads in insertion order.
func (s *LeadStore) Snapshot(_ context.Context) ([]domain.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Lead, len(s.leads))
	for i := range s.leads {
		result[i] = s.leads[i].Clone()
	}
	return result, nil
}

// Append adds leads to the end of the collection.
func (s *LeadStore) Append(_ context.Context, leads []domain.Lead) error {
	copies := make([]domain.Lead, len(leads))
	for i := range leads {
		copies[i] = leads[i].Clone()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads = append(s.leads, copies...)
	return nil
}

// Reset removes all leads.
func (s *LeadStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads = make([]domain.Lead, 0)
	return nil
}

// Len returns the number of stored leads.
func (s *LeadStore) Len(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.leads), nil
}

// Close is a no-op.
func (s *LeadStore) Close() error {
	return nil
}
