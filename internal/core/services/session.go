package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/ports/driven"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/ports/driving"
	"github.com/bfreelanceseo/MapScraperPro/internal/logger"
)

// Ensure SearchSession implements the interface.
var _ driving.LeadSearchService = (*SearchSession)(nil)

const defaultLocateTimeout = 5 * time.Second

// SearchSession accumulates deduplicated leads across repeated fetches for
// one frozen set of search parameters.
//
// The retriever call is the only blocking point and is always made without
// holding the session lock. Every call that reaches the retriever records the
// session generation; if Clear or Start bumps the generation before the
// response arrives, the response is discarded.
type SearchSession struct {
	retrievers RetrieverProvider
	store      driven.LeadStore
	geolocator driven.Geolocator
	parser     *Parser

	locateTimeout   time.Duration
	retrieveTimeout time.Duration

	mu     sync.Mutex
	gen    uint64
	params *domain.SearchParameters
	busy   bool
	raw    []string
}

// NewSearchSession creates a session over the given store.
// A nil retriever makes every search fail with domain.ErrNotConfigured.
func NewSearchSession(retriever driven.Retriever, store driven.LeadStore) *SearchSession {
	return &SearchSession{
		retrievers:    fixedRetriever{r: retriever},
		store:         store,
		parser:        NewParser(),
		locateTimeout: defaultLocateTimeout,
	}
}

// SetGeolocator sets the optional geolocator and the longest wait for it.
// A non-positive timeout keeps the default.
func (s *SearchSession) SetGeolocator(g driven.Geolocator, timeout time.Duration) {
	s.geolocator = g
	if timeout > 0 {
		s.locateTimeout = timeout
	}
}

// SetRetrieverProvider makes every fetch use the retriever p returns at
// that moment instead of the one given at construction.
func (s *SearchSession) SetRetrieverProvider(p RetrieverProvider) {
	s.retrievers = p
}

// SetRetrievalTimeout bounds each retriever call. Zero disables the bound.
func (s *SearchSession) SetRetrievalTimeout(d time.Duration) {
	s.retrieveTimeout = d
}

// SetParser replaces the table parser.
func (s *SearchSession) SetParser(p *Parser) {
	s.parser = p
}

// Start begins a new session and fetches the first batch.
// Every parsed lead is stored; the first batch is not deduplicated.
func (s *SearchSession) Start(ctx context.Context, req domain.SearchRequest) (domain.SearchParameters, error) {
	logger.Section("Search Start")

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return domain.SearchParameters{}, fmt.Errorf("%w: query must not be empty", domain.ErrInvalidInput)
	}
	category, err := domain.ParseCategory(req.Category)
	if err != nil {
		return domain.SearchParameters{}, err
	}
	retriever, err := s.retrievers.Retriever()
	if err != nil {
		return domain.SearchParameters{}, err
	}

	location, err := s.resolveLocation(ctx, req)
	if err != nil {
		return domain.SearchParameters{}, err
	}

	params := domain.SearchParameters{Query: query, Category: category, Location: location}
	logger.Debug("Query: %q, category: %s", params.Query, params.Category)
	if location != nil {
		logger.Debug("Location: %s", location)
	}

	s.mu.Lock()
	s.gen++
	gen := s.gen
	frozen := params
	s.params = &frozen
	s.busy = true
	s.raw = nil
	resetErr := s.store.Reset(ctx)
	s.mu.Unlock()
	if resetErr != nil {
		s.abandon(gen)
		return domain.SearchParameters{}, fmt.Errorf("reset lead store: %w", resetErr)
	}

	text, err := s.retrieve(ctx, retriever, domain.NewRetrievalRequest(params, nil))

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen {
		logger.Debug("Discarding stale first batch (generation %d, now %d)", gen, s.gen)
		return params, domain.ErrStaleResponse
	}
	s.busy = false

	if err != nil {
		s.params = nil
		if resetErr := s.store.Reset(ctx); resetErr != nil {
			logger.Warn("Failed to reset lead store: %v", resetErr)
		}
		return domain.SearchParameters{}, err
	}

	s.raw = append(s.raw, text)
	table := s.parser.Parse(text)
	logger.Debug("Parsed %d leads from %d columns", len(table.Leads), len(table.Columns))

	if table.Empty() {
		return params, domain.ErrEmptyResult
	}
	if err := s.store.Append(ctx, table.Leads); err != nil {
		return params, fmt.Errorf("store leads: %w", err)
	}
	return params, nil
}

// LoadMore fetches another batch, asking the model to skip known names,
// and appends only leads whose names are new.
func (s *SearchSession) LoadMore(ctx context.Context) (int, error) {
	logger.Section("Load More")

	s.mu.Lock()
	if s.params == nil {
		s.mu.Unlock()
		return 0, domain.ErrNoActiveSession
	}
	if s.busy {
		s.mu.Unlock()
		return 0, domain.ErrFetchInProgress
	}
	existing, err := s.store.Snapshot(ctx)
	if err != nil {
		s.mu.Unlock()
		return 0, fmt.Errorf("read leads: %w", err)
	}
	params := *s.params
	gen := s.gen
	s.mu.Unlock()

	retriever, err := s.retrievers.Retriever()
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return 0, domain.ErrStaleResponse
	}
	if s.busy {
		s.mu.Unlock()
		return 0, domain.ErrFetchInProgress
	}
	s.busy = true
	s.mu.Unlock()

	exclude := domain.LeadNames(existing)
	logger.Debug("Excluding %d known names", len(exclude))

	text, err := s.retrieve(ctx, retriever, domain.NewRetrievalRequest(params, exclude))

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen {
		logger.Debug("Discarding stale batch (generation %d, now %d)", gen, s.gen)
		return 0, domain.ErrStaleResponse
	}
	s.busy = false

	if err != nil {
		return 0, err
	}

	s.raw = append(s.raw, text)
	table := s.parser.Parse(text)

	current, err := s.store.Snapshot(ctx)
	if err != nil {
		return 0, fmt.Errorf("read leads: %w", err)
	}
	report := Dedup(current, table.Leads)
	logger.Debug("Parsed %d leads, %d new, %d duplicates", len(table.Leads), len(report.Kept), len(report.Dropped))

	if len(report.Kept) == 0 {
		return 0, domain.ErrNoNewResults
	}
	if err := s.store.Append(ctx, report.Kept); err != nil {
		return 0, fmt.Errorf("store leads: %w", err)
	}
	return len(report.Kept), nil
}

// Clear ends the session. Any pending fetch is discarded when it returns.
func (s *SearchSession) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.params = nil
	s.busy = false
	s.raw = nil
	if err := s.store.Reset(ctx); err != nil {
		return fmt.Errorf("reset lead store: %w", err)
	}
	return nil
}

// Leads returns the accumulated leads in insertion order.
func (s *SearchSession) Leads(ctx context.Context) ([]domain.Lead, error) {
	return s.store.Snapshot(ctx)
}

// Parameters returns the frozen parameters and whether a session is active.
func (s *SearchSession) Parameters() (domain.SearchParameters, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.params == nil {
		return domain.SearchParameters{}, false
	}
	return *s.params, true
}

// RawResponse returns the raw model text of every batch in this session.
func (s *SearchSession) RawResponse() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.Join(s.raw, domain.BatchSeparator)
}

// Busy reports whether a fetch is pending.
func (s *SearchSession) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Close releases the underlying store.
func (s *SearchSession) Close() error {
	return s.store.Close()
}

func (s *SearchSession) abandon(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen == gen {
		s.busy = false
		s.params = nil
	}
}

func (s *SearchSession) retrieve(ctx context.Context, r driven.Retriever, req domain.RetrievalRequest) (string, error) {
	if s.retrieveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.retrieveTimeout)
		defer cancel()
	}

	started := time.Now()
	text, err := r.Retrieve(ctx, req)
	logger.Debug("Retrieval via %s took %s", r.ModelName(), time.Since(started).Round(time.Millisecond))
	if err != nil {
		if errors.Is(err, domain.ErrRetrievalFailed) || errors.Is(err, domain.ErrNotConfigured) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", domain.ErrRetrievalFailed, err)
	}
	return text, nil
}

// resolveLocation prefers explicit coordinates, then the geolocator.
// Geolocation failures are logged and the search continues without a location.
func (s *SearchSession) resolveLocation(ctx context.Context, req domain.SearchRequest) (*domain.GeoLocation, error) {
	if req.Location != nil {
		if !req.Location.IsValid() {
			return nil, fmt.Errorf("%w: coordinates out of range: %s", domain.ErrInvalidInput, req.Location)
		}
		loc := *req.Location
		return &loc, nil
	}
	if !req.UseLocation {
		return nil, nil
	}
	if s.geolocator == nil {
		logger.Warn("Location requested but no geolocator configured, continuing without location")
		return nil, nil
	}

	locateCtx, cancel := context.WithTimeout(ctx, s.locateTimeout)
	defer cancel()

	loc, err := s.geolocator.Locate(locateCtx)
	if err != nil {
		logger.Warn("Location unavailable, continuing without location: %v", err)
		return nil, nil
	}
	if !loc.IsValid() {
		logger.Warn("Geolocator returned invalid coordinates %s, ignoring", loc)
		return nil, nil
	}
	return &loc, nil
}
