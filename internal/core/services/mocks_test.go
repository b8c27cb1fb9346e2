package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/ports/driven"
)

// mockRetriever implements driven.Retriever for testing.
// Responses are returned in order; the last one repeats once exhausted.
type mockRetriever struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	requests  []domain.RetrievalRequest
	closed    bool

	// gate, when set, blocks each call until a value is received.
	gate chan struct{}
	// entered is signalled when a call reaches the gate.
	entered chan struct{}
}

func newMockRetriever(responses ...string) *mockRetriever {
	return &mockRetriever{responses: responses}
}

func (m *mockRetriever) Retrieve(ctx context.Context, req domain.RetrievalRequest) (string, error) {
	m.mu.Lock()
	call := len(m.requests)
	m.requests = append(m.requests, req)
	gate, entered := m.gate, m.entered
	m.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if call < len(m.errs) && m.errs[call] != nil {
		return "", m.errs[call]
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

func (m *mockRetriever) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// mockRetrieverFactory builds mock retrievers, refusing unconfigured settings.
type mockRetrieverFactory struct {
	responses []string
	built     []*mockRetriever
	settings  []domain.RetrievalSettings
}

func (f *mockRetrieverFactory) Create(settings *domain.RetrievalSettings) (driven.Retriever, error) {
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: %s API key is missing", domain.ErrNotConfigured, settings.Provider)
	}
	r := newMockRetriever(f.responses...)
	f.built = append(f.built, r)
	f.settings = append(f.settings, *settings)
	return r, nil
}

func (m *mockRetriever) Requests() []domain.RetrievalRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.RetrievalRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// mockGeolocator implements driven.Geolocator for testing.
type mockGeolocator struct {
	loc   domain.GeoLocation
	err   error
	block bool
	calls int
}

func (m *mockGeolocator) Locate(ctx context.Context) (domain.GeoLocation, error) {
	m.calls++
	if m.block {
		<-ctx.Done()
		return domain.GeoLocation{}, ctx.Err()
	}
	return m.loc, m.err
}

// mockSecretStore implements driven.SecretStore for testing.
type mockSecretStore struct {
	secrets map[string]string
	getErr  error
	setErr  error
}

func newMockSecretStore() *mockSecretStore {
	return &mockSecretStore{secrets: make(map[string]string)}
}

func (m *mockSecretStore) Get(provider string) (string, error) {
	if m.getErr != nil {
		return "", m.getErr
	}
	return m.secrets[provider], nil
}

func (m *mockSecretStore) Set(provider, secret string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.secrets[provider] = secret
	return nil
}

func (m *mockSecretStore) Delete(provider string) error {
	delete(m.secrets, provider)
	return nil
}

// mockClipboard implements driven.Clipboard for testing.
type mockClipboard struct {
	text string
	err  error
}

func (m *mockClipboard) WriteAll(text string) error {
	if m.err != nil {
		return m.err
	}
	m.text = text
	return nil
}

// mockValidator implements driven.AIConfigValidator for testing.
type mockValidator struct {
	err  error
	seen *domain.RetrievalSettings
}

func (m *mockValidator) ValidateRetrieval(config *domain.RetrievalSettings) error {
	m.seen = config
	return m.err
}

// failingLeadStore implements driven.LeadStore with injectable errors.
type failingLeadStore struct {
	driven.LeadStore
	appendErr error
	resetErr  error
}

func (f *failingLeadStore) Append(ctx context.Context, leads []domain.Lead) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	return f.LeadStore.Append(ctx, leads)
}

func (f *failingLeadStore) Reset(ctx context.Context) error {
	if f.resetErr != nil {
		return f.resetErr
	}
	return f.LeadStore.Reset(ctx)
}

var errUpstream = errors.New("upstream exploded")

// Ensure mocks implement the interfaces.
var (
	_ driven.Retriever         = (*mockRetriever)(nil)
	_ driven.Geolocator        = (*mockGeolocator)(nil)
	_ driven.SecretStore       = (*mockSecretStore)(nil)
	_ driven.Clipboard         = (*mockClipboard)(nil)
	_ driven.AIConfigValidator = (*mockValidator)(nil)
)
