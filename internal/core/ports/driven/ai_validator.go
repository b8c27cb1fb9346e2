package driven

import "github.com/bfreelanceseo/MapScraperPro/internal/core/domain"

// AIConfigValidator validates retrieval provider configurations.
// Implementations verify that configurations are valid by testing connectivity
// to the underlying AI services.
type AIConfigValidator interface {
	// ValidateRetrieval validates a retrieval configuration by pinging the provider.
	ValidateRetrieval(config *domain.RetrievalSettings) error
}
