package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/ports/driven"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/ports/driving"
	"github.com/bfreelanceseo/MapScraperPro/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyProvider        = "retrieval.provider"
	KeyModel           = "retrieval.model"
	KeyBaseURL         = "retrieval.base_url"
	KeyAPIKey          = "retrieval.api_key"
	KeyTimeout         = "retrieval.timeout_seconds"
	KeyLocationEnabled = "location.enabled"
	KeyLocationSource  = "location.provider"
	KeyLatitude        = "location.latitude"
	KeyLongitude       = "location.longitude"
	KeyLocationTimeout = "location.timeout_seconds"
	KeyExportColumns   = "export.columns"
	KeyExportDir       = "export.dir"
	KeyStorageBackend  = "storage.backend"
)

// SettingKeys returns every recognised config key in display order.
func SettingKeys() []string {
	return []string{
		KeyProvider, KeyModel, KeyBaseURL, KeyAPIKey, KeyTimeout,
		KeyLocationEnabled, KeyLocationSource, KeyLatitude, KeyLongitude, KeyLocationTimeout,
		KeyExportColumns, KeyExportDir,
		KeyStorageBackend,
	}
}

// SettingsService manages application settings.
//
// API keys resolve in order: config file, secret store, fallback lookup.
type SettingsService struct {
	configStore    driven.ConfigStore
	secretStore    driven.SecretStore
	aiValidator    driven.AIConfigValidator
	apiKeyFallback func(domain.AIProvider) string
}

// NewSettingsService creates a new settings service.
// The secretStore and aiValidator parameters are optional (can be nil).
func NewSettingsService(
	configStore driven.ConfigStore,
	secretStore driven.SecretStore,
	aiValidator driven.AIConfigValidator,
) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		secretStore: secretStore,
		aiValidator: aiValidator,
	}
}

// SetAPIKeyFallback sets a last-resort API key lookup, such as the environment.
func (s *SettingsService) SetAPIKeyFallback(fn func(domain.AIProvider) string) {
	s.apiKeyFallback = fn
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	provider := s.getProvider(defaults.Retrieval.Provider)
	model := s.configStore.GetString(KeyModel)
	if model == "" {
		model = domain.DefaultModels()[provider]
	}

	settings := &domain.AppSettings{
		Retrieval: domain.RetrievalSettings{
			Provider:       provider,
			Model:          model,
			BaseURL:        s.configStore.GetString(KeyBaseURL),
			APIKey:         s.resolveAPIKey(provider),
			TimeoutSeconds: s.getInt(KeyTimeout, defaults.Retrieval.TimeoutSeconds),
		},
		Location: domain.LocationSettings{
			Enabled:        s.getBool(KeyLocationEnabled, defaults.Location.Enabled),
			Provider:       s.getGeoProvider(defaults.Location.Provider),
			Latitude:       s.configStore.GetFloat(KeyLatitude),
			Longitude:      s.configStore.GetFloat(KeyLongitude),
			TimeoutSeconds: s.getInt(KeyLocationTimeout, defaults.Location.TimeoutSeconds),
		},
		Export: domain.ExportSettings{
			Columns: s.getStringSlice(KeyExportColumns, defaults.Export.Columns),
			Dir:     s.getString(KeyExportDir, defaults.Export.Dir),
		},
		Storage: domain.StorageSettings{
			Backend: s.getStorageBackend(defaults.Storage.Backend),
		},
	}

	return settings, nil
}

// Save persists application settings.
// The API key is written to the secret store when one is available.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := s.configStore.Set(KeyProvider, settings.Retrieval.Provider.String()); err != nil {
		return fmt.Errorf("save retrieval provider: %w", err)
	}
	if err := s.configStore.Set(KeyModel, settings.Retrieval.Model); err != nil {
		return fmt.Errorf("save retrieval model: %w", err)
	}
	if err := s.configStore.Set(KeyBaseURL, settings.Retrieval.BaseURL); err != nil {
		return fmt.Errorf("save retrieval base_url: %w", err)
	}
	if err := s.configStore.Set(KeyTimeout, settings.Retrieval.TimeoutSeconds); err != nil {
		return fmt.Errorf("save retrieval timeout: %w", err)
	}
	if settings.Retrieval.APIKey != "" {
		if err := s.storeAPIKey(settings.Retrieval.Provider, settings.Retrieval.APIKey); err != nil {
			return err
		}
	}

	if err := s.configStore.Set(KeyLocationEnabled, settings.Location.Enabled); err != nil {
		return fmt.Errorf("save location enabled: %w", err)
	}
	if err := s.configStore.Set(KeyLocationSource, settings.Location.Provider.String()); err != nil {
		return fmt.Errorf("save location provider: %w", err)
	}
	if err := s.configStore.Set(KeyLatitude, settings.Location.Latitude); err != nil {
		return fmt.Errorf("save latitude: %w", err)
	}
	if err := s.configStore.Set(KeyLongitude, settings.Location.Longitude); err != nil {
		return fmt.Errorf("save longitude: %w", err)
	}
	if err := s.configStore.Set(KeyLocationTimeout, settings.Location.TimeoutSeconds); err != nil {
		return fmt.Errorf("save location timeout: %w", err)
	}

	if err := s.configStore.Set(KeyExportColumns, settings.Export.Columns); err != nil {
		return fmt.Errorf("save export columns: %w", err)
	}
	if err := s.configStore.Set(KeyExportDir, settings.Export.Dir); err != nil {
		return fmt.Errorf("save export dir: %w", err)
	}

	if err := s.configStore.Set(KeyStorageBackend, settings.Storage.Backend.String()); err != nil {
		return fmt.Errorf("save storage backend: %w", err)
	}

	return nil
}

// SetValue parses and stores a single setting by its config key.
func (s *SettingsService) SetValue(key, value string) error {
	value = strings.TrimSpace(value)

	switch key {
	case KeyProvider:
		p := domain.AIProvider(strings.ToLower(value))
		if !p.IsValid() {
			return fmt.Errorf("%w: provider %q", domain.ErrUnsupportedType, value)
		}
		return s.configStore.Set(key, p.String())
	case KeyLocationSource:
		p := domain.GeoProvider(strings.ToLower(value))
		if !p.IsValid() {
			return fmt.Errorf("%w: location provider %q", domain.ErrUnsupportedType, value)
		}
		return s.configStore.Set(key, p.String())
	case KeyStorageBackend:
		b := domain.StorageBackend(strings.ToLower(value))
		if !b.IsValid() {
			return fmt.Errorf("%w: storage backend %q", domain.ErrUnsupportedType, value)
		}
		return s.configStore.Set(key, b.String())
	case KeyAPIKey:
		return s.SetAPIKey(value)
	case KeyModel, KeyBaseURL, KeyExportDir:
		return s.configStore.Set(key, value)
	case KeyTimeout, KeyLocationTimeout:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		return s.configStore.Set(key, n)
	case KeyLocationEnabled:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		return s.configStore.Set(key, b)
	case KeyLatitude, KeyLongitude:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
		}
		loc := domain.GeoLocation{Latitude: f}
		if key == KeyLongitude {
			loc = domain.GeoLocation{Longitude: f}
		}
		if !loc.IsValid() {
			return fmt.Errorf("%w: %s out of range", domain.ErrInvalidInput, key)
		}
		return s.configStore.Set(key, f)
	case KeyExportColumns:
		cols := strings.Split(value, ",")
		if _, err := domain.ParseExportColumns(cols); err != nil {
			return err
		}
		for i := range cols {
			cols[i] = strings.ToLower(strings.TrimSpace(cols[i]))
		}
		return s.configStore.Set(key, cols)
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
}

// SetProvider configures the retrieval provider.
// An empty model selects the provider's default.
func (s *SettingsService) SetProvider(provider domain.AIProvider, model string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: provider %q", domain.ErrUnsupportedType, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Retrieval.Provider = provider
	if model != "" {
		settings.Retrieval.Model = model
	} else {
		settings.Retrieval.Model = domain.DefaultModels()[provider]
	}
	// Cloud providers use their public endpoint unless overridden again.
	settings.Retrieval.BaseURL = ""
	settings.Retrieval.APIKey = ""

	return s.Save(settings)
}

// SetAPIKey stores the API key for the configured provider.
// With a secret store, the key goes there and any plaintext copy is removed.
func (s *SettingsService) SetAPIKey(apiKey string) error {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return fmt.Errorf("%w: API key must not be empty", domain.ErrInvalidInput)
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.storeAPIKey(settings.Retrieval.Provider, apiKey)
}

// Validate checks that the current settings can run a search.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Retrieval.Provider.IsValid() {
		return fmt.Errorf("%w: provider %q", domain.ErrUnsupportedType, settings.Retrieval.Provider)
	}
	if !settings.Retrieval.IsConfigured() {
		return fmt.Errorf("%w: API key required for %s", domain.ErrNotConfigured, settings.Retrieval.Provider)
	}
	if _, err := domain.ParseExportColumns(settings.Export.Columns); err != nil {
		return err
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// RetrievalSettings returns the current retrieval settings, API key included.
func (s *SettingsService) RetrievalSettings() (*domain.RetrievalSettings, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}
	return &settings.Retrieval, nil
}

// ValidateRetrievalConfig validates the retrieval configuration by pinging the provider.
func (s *SettingsService) ValidateRetrievalConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateRetrieval(&settings.Retrieval)
}

func (s *SettingsService) resolveAPIKey(provider domain.AIProvider) string {
	if key := s.configStore.GetString(KeyAPIKey); key != "" {
		return key
	}
	if s.secretStore != nil {
		key, err := s.secretStore.Get(provider.String())
		if err != nil {
			logger.Warn("Keyring lookup for %s failed: %v", provider, err)
		} else if key != "" {
			return key
		}
	}
	if s.apiKeyFallback != nil {
		return s.apiKeyFallback(provider)
	}
	return ""
}

func (s *SettingsService) storeAPIKey(provider domain.AIProvider, apiKey string) error {
	if s.secretStore == nil {
		if err := s.configStore.Set(KeyAPIKey, apiKey); err != nil {
			return fmt.Errorf("save retrieval api_key: %w", err)
		}
		return nil
	}

	if err := s.secretStore.Set(provider.String(), apiKey); err != nil {
		return fmt.Errorf("store API key in keyring: %w", err)
	}
	if err := s.configStore.Delete(KeyAPIKey); err != nil {
		return fmt.Errorf("remove plaintext api_key: %w", err)
	}
	return nil
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getStringSlice(key string, defaultVal []string) []string {
	val := s.configStore.GetStringSlice(key)
	if len(val) == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getProvider(defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(KeyProvider))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getGeoProvider(defaultVal domain.GeoProvider) domain.GeoProvider {
	provider := domain.GeoProvider(s.configStore.GetString(KeyLocationSource))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getStorageBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	backend := domain.StorageBackend(s.configStore.GetString(KeyStorageBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
