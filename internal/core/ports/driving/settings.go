package driving

import "github.com/bfreelanceseo/MapScraperPro/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetValue updates a single setting by its config key.
	SetValue(key, value string) error

	// SetProvider configures the retrieval provider.
	SetProvider(provider domain.AIProvider, model string) error

	// SetAPIKey stores the API key for the configured provider.
	SetAPIKey(apiKey string) error

	// Validate checks that the current settings can run a search.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateRetrievalConfig validates the retrieval configuration by pinging the provider.
	ValidateRetrievalConfig() error
}
