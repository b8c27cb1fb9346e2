package httpapi

import (
	"context"
	"sync"

	"github.com/bfreelanceseo/MapScraperPro/internal/adapters/driven/storage/memory"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/ports/driving"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/services"
)

const (
	firstBatch = `| Name | Phone |
|---|---|
| Joe's Diner | 555-1212 |
| Ace Plumbing | 555-3434 |`

	secondBatch = `| Name | Phone |
|---|---|
| joe's diner | 555-1212 |
| Blue Bakery | 555-9999 |`
)

// mockRetriever returns scripted responses in order, repeating the last.
type mockRetriever struct {
	mu        sync.Mutex
	responses []string
	err       error
	requests  []domain.RetrievalRequest
}

func (m *mockRetriever) Retrieve(_ context.Context, req domain.RetrievalRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	call := len(m.requests)
	m.requests = append(m.requests, req)
	if m.err != nil {
		return "", m.err
	}
	if len(m.responses) == 0 {
		return "", nil
	}
	if call >= len(m.responses) {
		return m.responses[len(m.responses)-1], nil
	}
	return m.responses[call], nil
}

func (m *mockRetriever) ModelName() string { return "mock-model" }

func (m *mockRetriever) Ping(_ context.Context) error { return nil }

func (m *mockRetriever) Close() error { return nil }

// stubSettings returns fixed settings for the health endpoint.
type stubSettings struct {
	driving.SettingsService
	settings domain.AppSettings
}

func (s *stubSettings) Get() (*domain.AppSettings, error) {
	out := s.settings
	return &out, nil
}

func newTestServer(cfg services.WorkspaceConfig) (*Server, *services.WorkspaceManager) {
	if cfg.Stores == nil {
		cfg.Stores = memory.NewLeadStoreFactory()
	}
	manager := services.NewWorkspaceManager(cfg)
	server, err := NewServer(&Ports{Workspaces: manager})
	if err != nil {
		panic(err)
	}
	return server, manager
}
