package mcp

import (
	"context"
	"fmt"
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
	calls     int
}

func (m *mockRetriever) Retrieve(_ context.Context, _ domain.RetrievalRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	call := m.calls
	m.calls++
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

func newTestServer(r *mockRetriever) (*Server, *services.WorkspaceManager) {
	manager := services.NewWorkspaceManager(services.WorkspaceConfig{
		Retriever: r,
		Stores:    memory.NewLeadStoreFactory(),
	})
	server, err := NewServer(&Ports{Workspaces: manager})
	if err != nil {
		panic(err)
	}
	return server, manager
}


// growingManager hands out workspaces whose lead list grows on every read.
type growingManager struct {
	driving.WorkspaceManager
}

func (m growingManager) Get(id string) (driving.Workspace, error) {
	ws, err := m.WorkspaceManager.Get(id)
	if err != nil {
		return nil, err
	}
	return &growingWorkspace{Workspace: ws}, nil
}

type growingWorkspace struct {
	driving.Workspace
	reads int
}

func (w *growingWorkspace) Leads(ctx context.Context) ([]domain.Lead, error) {
	leads, err := w.Workspace.Leads(ctx)
	if err != nil {
		return nil, err
	}
	w.reads++
	for i := 0; i < w.reads; i++ {
		l := domain.NewLead(fmt.Sprintf("extra-%d", i))
		l.Set(domain.FieldName, fmt.Sprintf("Extra %d", i))
		leads = append(leads, l)
	}
	return leads, nil
}
