// Package retrieval provides factory functions for creating retriever adapters.
package retrieval

import (
	"context"
	"fmt"
	"time"

	"github.com/bfreelanceseo/MapScraperPro/internal/adapters/driven/retrieval/gemini"
	"github.com/bfreelanceseo/MapScraperPro/internal/adapters/driven/retrieval/openai"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// Ensure Factory implements the interface.
var _ driven.RetrieverFactory = (*Factory)(nil)

// Factory creates retrievers wired to a prompt store.
type Factory struct {
	prompts driven.PromptStore
}

// NewFactory creates a factory. prompts may be nil.
func NewFactory(prompts driven.PromptStore) *Factory {
	return &Factory{prompts: prompts}
}

// Create builds a retriever for the configured provider.
func (f *Factory) Create(settings *domain.RetrievalSettings) (driven.Retriever, error) {
	r, err := NewRetriever(settings)
	if err != nil {
		return nil, err
	}
	if aware, ok := r.(driven.PromptStoreAware); ok && f.prompts != nil {
		aware.SetPromptStore(f.prompts)
	}
	return r, nil
}

// NewRetriever creates the appropriate retriever based on settings.
// Missing or incomplete settings yield domain.ErrNotConfigured.
func NewRetriever(settings *domain.RetrievalSettings) (driven.Retriever, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: no retrieval settings", domain.ErrNotConfigured)
	}
	if !settings.Provider.IsValid() {
		return nil, fmt.Errorf("%w: unsupported provider %q", domain.ErrNotConfigured, settings.Provider)
	}
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: %s API key is missing. Run 'mapscraper settings set-key' to fix",
			domain.ErrNotConfigured, settings.Provider)
	}

	var timeout time.Duration
	if settings.TimeoutSeconds > 0 {
		timeout = time.Duration(settings.TimeoutSeconds) * time.Second
	}

	switch settings.Provider {
	case domain.AIProviderGemini:
		r, err := gemini.NewRetriever(gemini.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: timeout,
		})
		if err != nil {
			return nil, err
		}
		return r, nil

	case domain.AIProviderOpenAI:
		r, err := openai.NewRetriever(openai.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: timeout,
		})
		if err != nil {
			return nil, err
		}
		return r, nil

	default:
		return nil, fmt.Errorf("%w: unsupported provider %q", domain.ErrNotConfigured, settings.Provider)
	}
}

// CreateAndValidate creates a retriever and validates connectivity.
// Returns the retriever if successful, or an error with guidance.
func (f *Factory) CreateAndValidate(ctx context.Context, settings *domain.RetrievalSettings) (driven.Retriever, error) {
	r, err := f.Create(settings)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := r.Ping(pingCtx); err != nil {
		r.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'mapscraper settings show' to check",
			domain.ErrNotConfigured, err)
	}

	return r, nil
}
