package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/ports/driven"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/ports/driving"
	"github.com/bfreelanceseo/MapScraperPro/internal/logger"
)

// Ensure implementations satisfy the interfaces.
var (
	_ driving.Workspace        = (*Workspace)(nil)
	_ driving.WorkspaceManager = (*WorkspaceManager)(nil)
	_ driving.WorkspacePruner  = (*WorkspaceManager)(nil)
)

// Workspace pairs a search session with an export service over it.
type Workspace struct {
	*SearchSession
	*ExportService

	id string

	mu       sync.Mutex
	lastUsed time.Time
}

// ID returns the workspace identifier.
func (w *Workspace) ID() string {
	return w.id
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	w.lastUsed = now
	w.mu.Unlock()
}

func (w *Workspace) idleSince() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastUsed
}

// WorkspaceConfig holds the collaborators every new workspace is wired with.
type WorkspaceConfig struct {
	// Retriever is shared by all workspaces. Nil makes searches fail with
	// domain.ErrNotConfigured.
	Retriever driven.Retriever

	// Retrievers, when set, is asked for the retriever on every fetch and
	// takes precedence over Retriever.
	Retrievers RetrieverProvider

	// Stores creates one lead store per workspace (required).
	Stores driven.LeadStoreFactory

	// Geolocator is optional.
	Geolocator    driven.Geolocator
	LocateTimeout time.Duration

	// RetrievalTimeout bounds each retriever call. Zero disables the bound.
	RetrievalTimeout time.Duration

	// ExportColumns is the CSV projection; empty uses the default.
	ExportColumns []domain.ExportColumn

	// Clipboard is optional.
	Clipboard driven.Clipboard

	// MaxSessions caps open workspaces. Zero means no cap.
	MaxSessions int

	// IdleTTL is how long an untouched workspace survives Prune.
	// Zero disables pruning.
	IdleTTL time.Duration
}

// WorkspaceManager creates and tracks workspaces by ID.
type WorkspaceManager struct {
	cfg   WorkspaceConfig
	now   func() time.Time
	newID func() string

	mu         sync.RWMutex
	workspaces map[string]*Workspace

	janitorMu sync.Mutex
	running   bool
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

// NewWorkspaceManager creates a manager.
func NewWorkspaceManager(cfg WorkspaceConfig) *WorkspaceManager {
	return &WorkspaceManager{
		cfg:        cfg,
		now:        time.Now,
		newID:      uuid.NewString,
		workspaces: make(map[string]*Workspace),
	}
}

// Open creates a workspace with an empty store.
func (m *WorkspaceManager) Open(_ context.Context) (driving.Workspace, error) {
	return m.open()
}

// OpenWorkspace is Open returning the concrete type.
func (m *WorkspaceManager) OpenWorkspace() (*Workspace, error) {
	return m.open()
}

func (m *WorkspaceManager) open() (*Workspace, error) {
	if m.cfg.Stores == nil {
		return nil, fmt.Errorf("%w: no lead store configured", domain.ErrInvalidInput)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cfg.MaxSessions > 0 && len(m.workspaces) >= m.cfg.MaxSessions {
		return nil, fmt.Errorf("%w: limit is %d", domain.ErrSessionLimit, m.cfg.MaxSessions)
	}

	store, err := m.cfg.Stores()
	if err != nil {
		return nil, fmt.Errorf("create lead store: %w", err)
	}

	session := NewSearchSession(m.cfg.Retriever, store)
	if m.cfg.Retrievers != nil {
		session.SetRetrieverProvider(m.cfg.Retrievers)
	}
	if m.cfg.Geolocator != nil {
		session.SetGeolocator(m.cfg.Geolocator, m.cfg.LocateTimeout)
	}
	session.SetRetrievalTimeout(m.cfg.RetrievalTimeout)

	w := &Workspace{
		SearchSession: session,
		ExportService: NewExportService(session, m.cfg.ExportColumns, m.cfg.Clipboard),
		id:            m.newID(),
		lastUsed:      m.now(),
	}
	m.workspaces[w.id] = w
	logger.Debug("Opened workspace %s (%d open)", w.id, len(m.workspaces))
	return w, nil
}

// Get returns an open workspace and marks it used.
func (m *WorkspaceManager) Get(id string) (driving.Workspace, error) {
	w, err := m.Workspace(id)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// Workspace is Get returning the concrete type.
func (m *WorkspaceManager) Workspace(id string) (*Workspace, error) {
	m.mu.RLock()
	w, ok := m.workspaces[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	w.touch(m.now())
	return w, nil
}

// Close discards a workspace.
func (m *WorkspaceManager) Close(id string) error {
	m.mu.Lock()
	w, ok := m.workspaces[id]
	delete(m.workspaces, id)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}

	// Bumps the generation so a pending fetch is discarded.
	if err := w.Clear(context.Background()); err != nil {
		logger.Warn("Clearing workspace %s: %v", id, err)
	}
	return w.SearchSession.Close()
}

// List returns open workspace IDs in sorted order.
func (m *WorkspaceManager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.workspaces))
	for id := range m.workspaces {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Prune closes workspaces idle for longer than IdleTTL and not fetching.
// Returns the number closed.
func (m *WorkspaceManager) Prune() int {
	if m.cfg.IdleTTL <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.cfg.IdleTTL)

	m.mu.RLock()
	var stale []string
	for id, w := range m.workspaces {
		if w.idleSince().Before(cutoff) && !w.Busy() {
			stale = append(stale, id)
		}
	}
	m.mu.RUnlock()

	closed := 0
	for _, id := range stale {
		if err := m.Close(id); err == nil {
			closed++
		}
	}
	if closed > 0 {
		logger.Info("Pruned %d idle workspace(s)", closed)
	}
	return closed
}

// Start runs Prune on every interval until Stop is called or ctx ends.
// This method blocks.
func (m *WorkspaceManager) Start(ctx context.Context, interval time.Duration) error {
	m.janitorMu.Lock()
	if m.running {
		m.janitorMu.Unlock()
		return nil // Already running
	}
	m.running = true
	m.stopCh = make(chan struct{})
	stopCh := m.stopCh
	m.wg.Add(1)
	m.janitorMu.Unlock()
	defer m.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.janitorMu.Lock()
			m.running = false
			m.janitorMu.Unlock()
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			m.Prune()
		}
	}
}

// Stop halts the prune loop and waits for it to exit.
func (m *WorkspaceManager) Stop() error {
	m.janitorMu.Lock()
	if !m.running {
		m.janitorMu.Unlock()
		return nil
	}
	m.running = false
	close(m.stopCh)
	m.janitorMu.Unlock()

	m.wg.Wait()
	return nil
}

// Shutdown closes every workspace.
func (m *WorkspaceManager) Shutdown() error {
	var firstErr error
	for _, id := range m.List() {
		if err := m.Close(id); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
