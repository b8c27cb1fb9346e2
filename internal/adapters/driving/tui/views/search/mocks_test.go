package search

import (
	"context"
	"time"

	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
)

// mockWorkspace implements driving.Workspace for testing.
type mockWorkspace struct {
	leads   []domain.Lead
	params  *domain.SearchParameters
	raw     string
	startFn func(req domain.SearchRequest) (domain.SearchParameters, error)
	moreFn  func() (int, error)

	clearErr  error
	writeErr  error
	copyErr   error
	requests  []domain.SearchRequest
	writeDir  string
	writeTime time.Time
	copied    bool
}

func (m *mockWorkspace) ID() string { return "ws-test" }

func (m *mockWorkspace) Start(_ context.Context, req domain.SearchRequest) (domain.SearchParameters, error) {
	m.requests = append(m.requests, req)
	if m.startFn != nil {
		return m.startFn(req)
	}
	p := domain.SearchParameters{Query: req.Query, Category: domain.Category(req.Category)}
	m.params = &p
	return p, nil
}

func (m *mockWorkspace) LoadMore(context.Context) (int, error) {
	if m.moreFn != nil {
		return m.moreFn()
	}
	return 0, domain.ErrNoNewResults
}

func (m *mockWorkspace) Clear(context.Context) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	m.leads = nil
	m.params = nil
	return nil
}

func (m *mockWorkspace) Leads(context.Context) ([]domain.Lead, error) {
	return m.leads, nil
}

func (m *mockWorkspace) Parameters() (domain.SearchParameters, bool) {
	if m.params == nil {
		return domain.SearchParameters{}, false
	}
	return *m.params, true
}

func (m *mockWorkspace) RawResponse() string { return m.raw }

func (m *mockWorkspace) Encode(context.Context) (string, error) { return "", nil }

func (m *mockWorkspace) WriteFile(_ context.Context, dir string, now time.Time) (string, error) {
	m.writeDir = dir
	m.writeTime = now
	if m.writeErr != nil {
		return "", m.writeErr
	}
	return dir + "/" + domain.ExportFileName(now), nil
}

func (m *mockWorkspace) WriteCSV(dir string, now time.Time, _ string) (string, error) {
	return m.WriteFile(context.Background(), dir, now)
}

func (m *mockWorkspace) Columns() []domain.ExportColumn { return domain.DefaultExportColumns() }

func (m *mockWorkspace) CopyToClipboard(context.Context) error {
	m.copied = m.copyErr == nil
	return m.copyErr
}

func newLead(name, phone string) domain.Lead {
	l := domain.NewLead(name)
	l.Set(domain.FieldName, name)
	if phone != "" {
		l.Set(domain.FieldPhone, phone)
	}
	return l
}
