package retrieval

import (
	"context"

	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator validates retrieval provider configurations.
type ConfigValidator struct {
	factory *Factory
}

// NewConfigValidator creates a validator building retrievers with factory.
// A nil factory uses one without a prompt store.
func NewConfigValidator(factory *Factory) *ConfigValidator {
	if factory == nil {
		factory = NewFactory(nil)
	}
	return &ConfigValidator{factory: factory}
}

// ValidateRetrieval validates a retrieval configuration by pinging the provider.
func (v *ConfigValidator) ValidateRetrieval(config *domain.RetrievalSettings) error {
	r, err := v.factory.CreateAndValidate(context.Background(), config)
	if err != nil {
		return err
	}
	return r.Close()
}
