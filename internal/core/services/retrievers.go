package services

import (
	"fmt"
	"sync"

	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/ports/driven"
	"github.com/bfreelanceseo/MapScraperPro/internal/logger"
)

// RetrieverProvider supplies the retriever for each fetch.
type RetrieverProvider interface {
	// Retriever returns the retriever to use now. Returns
	// domain.ErrNotConfigured when retrieval is not set up.
	Retriever() (driven.Retriever, error)
}

// Ensure RetrieverSource implements the interface.
var _ RetrieverProvider = (*RetrieverSource)(nil)

// RetrieverSource builds retrievers from the current settings and keeps the
// last one until the settings change.
type RetrieverSource struct {
	factory  driven.RetrieverFactory
	settings func() (*domain.RetrievalSettings, error)

	mu      sync.Mutex
	current driven.Retriever
	built   domain.RetrievalSettings
}

// NewRetrieverSource creates a source reading settings on every call.
func NewRetrieverSource(
	factory driven.RetrieverFactory,
	settings func() (*domain.RetrievalSettings, error),
) *RetrieverSource {
	return &RetrieverSource{factory: factory, settings: settings}
}

// Retriever returns a retriever for the current settings.
func (s *RetrieverSource) Retriever() (driven.Retriever, error) {
	settings, err := s.settings()
	if err != nil {
		return nil, fmt.Errorf("load retrieval settings: %w", err)
	}
	if settings == nil {
		return nil, fmt.Errorf("%w: no retrieval settings", domain.ErrNotConfigured)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && s.built == *settings {
		return s.current, nil
	}

	r, err := s.factory.Create(settings)
	if err != nil {
		return nil, err
	}
	if s.current != nil {
		logger.Debug("Retrieval settings changed, switching to %s", r.ModelName())
		if err := s.current.Close(); err != nil {
			logger.Debug("Closing previous retriever: %v", err)
		}
	}
	s.current = r
	s.built = *settings
	return r, nil
}

// Close releases the cached retriever.
func (s *RetrieverSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	err := s.current.Close()
	s.current = nil
	return err
}

type fixedRetriever struct {
	r driven.Retriever
}

func (f fixedRetriever) Retriever() (driven.Retriever, error) {
	if f.r == nil {
		return nil, domain.ErrNotConfigured
	}
	return f.r, nil
}
