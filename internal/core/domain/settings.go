package domain

const unknownDescription = "Unknown"

// AIProvider identifies a retrieval service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderGemini is the Gemini API with Google Maps grounding.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderGemini, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderGemini || p == AIProviderOpenAI
}

// SupportsMapsGrounding returns true if the provider can ground answers
// in Google Maps data.
func (p AIProvider) SupportsMapsGrounding() bool {
	return p == AIProviderGemini
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderGemini:
		return "Gemini (Google Maps grounding)"
	case AIProviderOpenAI:
		return "OpenAI (cloud, no maps grounding)"
	default:
		return unknownDescription
	}
}

// GeoProvider identifies how the caller's location is resolved.
type GeoProvider string

// Available location providers.
const (
	// GeoProviderStatic uses fixed coordinates from configuration.
	GeoProviderStatic GeoProvider = "static"

	// GeoProviderIP resolves the location from the public IP address.
	GeoProviderIP GeoProvider = "ip"
)

// IsValid returns true if the location provider is recognised.
func (p GeoProvider) IsValid() bool {
	return p == GeoProviderStatic || p == GeoProviderIP
}

// String returns the string representation.
func (p GeoProvider) String() string {
	return string(p)
}

// StorageBackend selects the session lead store implementation.
type StorageBackend string

// Available storage backends.
const (
	// StorageMemory keeps leads in a guarded slice.
	StorageMemory StorageBackend = "memory"

	// StorageSQLite keeps leads in a private in-memory SQLite database.
	StorageSQLite StorageBackend = "sqlite"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	return b == StorageMemory || b == StorageSQLite
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// RetrievalSettings holds retrieval provider configuration.
type RetrievalSettings struct {
	// Provider is the retrieval service provider.
	Provider AIProvider

	// Model is the model name.
	Model string

	// BaseURL overrides the API endpoint.
	BaseURL string

	// APIKey is the provider credential.
	APIKey string

	// TimeoutSeconds bounds a single retrieval call. Zero means no limit.
	TimeoutSeconds int
}

// IsConfigured returns true if the retrieval provider is set up.
func (r RetrievalSettings) IsConfigured() bool {
	if !r.Provider.IsValid() {
		return false
	}
	if r.Provider.RequiresAPIKey() && r.APIKey == "" {
		return false
	}
	return true
}

// LocationSettings holds location resolution configuration.
type LocationSettings struct {
	// Enabled makes searches use the caller's location by default.
	Enabled bool

	// Provider selects how the location is resolved.
	Provider GeoProvider

	// Latitude and Longitude are used by the static provider.
	Latitude  float64
	Longitude float64

	// TimeoutSeconds bounds the wait for a location.
	TimeoutSeconds int
}

// ExportSettings holds CSV export configuration.
type ExportSettings struct {
	// Columns lists field names to export, in order.
	Columns []string

	// Dir is the default output directory for exported files.
	Dir string
}

// StorageSettings holds session storage configuration.
type StorageSettings struct {
	// Backend selects the lead store.
	Backend StorageBackend
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Retrieval holds retrieval provider settings.
	Retrieval RetrievalSettings

	// Location holds location resolution settings.
	Location LocationSettings

	// Export holds export settings.
	Export ExportSettings

	// Storage holds lead store settings.
	Storage StorageSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The API key is left empty; users supply it via settings or the keyring.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Retrieval: RetrievalSettings{
			Provider:       AIProviderGemini,
			Model:          DefaultModels()[AIProviderGemini],
			TimeoutSeconds: 120,
		},
		Location: LocationSettings{
			Enabled:        false,
			Provider:       GeoProviderIP,
			TimeoutSeconds: 5,
		},
		Export: ExportSettings{
			Columns: []string{string(FieldName), string(FieldPhone)},
			Dir:     ".",
		},
		Storage: StorageSettings{
			Backend: StorageMemory,
		},
	}
}

// AllProviders returns providers that can serve retrieval.
func AllProviders() []AIProvider {
	return []AIProvider{
		AIProviderGemini,
		AIProviderOpenAI,
	}
}

// DefaultModels returns default models for each provider.
func DefaultModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGemini: "gemini-2.5-flash",
		AIProviderOpenAI: "gpt-4o-mini",
	}
}
