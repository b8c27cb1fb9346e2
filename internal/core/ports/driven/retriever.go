// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import (
	"context"

	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
)

// Retriever asks an AI grounding service for business listings.
// The response is the model's raw text, expected to contain a Markdown table.
//
// Implementations may include:
//   - Gemini (Google Maps grounding)
//   - OpenAI (Responses API, no maps grounding)
type Retriever interface {
	// Retrieve sends one request and returns the raw response text.
	// Failures should wrap domain.ErrRetrievalFailed.
	Retrieve(ctx context.Context, req domain.RetrievalRequest) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// RetrieverFactory creates retrievers from settings.
type RetrieverFactory interface {
	// Create builds a retriever. Returns domain.ErrNotConfigured when the
	// settings lack a required credential.
	Create(settings *domain.RetrievalSettings) (Retriever, error)
}
