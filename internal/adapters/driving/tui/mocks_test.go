package tui

import (
	"context"
	"errors"

	"github.com/bfreelanceseo/MapScraperPro/internal/adapters/driven/storage/memory"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/ports/driving"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/services"
)

const leadTable = `| Name | Phone |
|---|---|
| Joe's Diner | 555-1212 |
| Ace Plumbing |  |`

// mockRetriever always answers with the same text.
type mockRetriever struct {
	response string
	err      error
}

func (m *mockRetriever) Retrieve(context.Context, domain.RetrievalRequest) (string, error) {
	return m.response, m.err
}

func (m *mockRetriever) ModelName() string { return "mock-model" }

func (m *mockRetriever) Ping(context.Context) error { return nil }

func (m *mockRetriever) Close() error { return nil }

// failingManager refuses to open workspaces.
type failingManager struct{}

func (failingManager) Open(context.Context) (driving.Workspace, error) {
	return nil, domain.ErrSessionLimit
}

func (failingManager) Get(string) (driving.Workspace, error) { return nil, domain.ErrSessionNotFound }

func (failingManager) Close(string) error { return domain.ErrSessionNotFound }

func (failingManager) List() []string { return nil }

var errConfigUnreadable = errors.New("config unreadable")

// stubSettings serves fixed settings.
type stubSettings struct {
	settings domain.AppSettings
	getErr   error
}

func (s *stubSettings) Get() (*domain.AppSettings, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	c := s.settings
	return &c, nil
}

func (s *stubSettings) Save(*domain.AppSettings) error { return nil }
func (s *stubSettings) SetValue(string, string) error { return nil }
func (s *stubSettings) SetProvider(domain.AIProvider, string) error { return nil }
func (s *stubSettings) SetAPIKey(string) error { return nil }
func (s *stubSettings) Validate() error { return nil }
func (s *stubSettings) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }
func (s *stubSettings) ValidateRetrievalConfig() error { return nil }

func newTestManager(r *mockRetriever) *services.WorkspaceManager {
	return services.NewWorkspaceManager(services.WorkspaceConfig{
		Retriever: r,
		Stores:    memory.NewLeadStoreFactory(),
	})
}

func newTestApp(r *mockRetriever) (*App, *services.WorkspaceManager) {
	manager := newTestManager(r)
	app, err := NewApp(&Ports{Workspaces: manager})
	if err != nil {
		panic(err)
	}
	return app, manager
}
