package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bfreelanceseo/MapScraperPro/internal/adapters/driven/storage/memory"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
)

func TestSettingsService_Get_Defaults(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore(), nil, nil)

	settings, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), *settings)
}

func TestSettingsService_Get_FromConfig(t *testing.T) {
	store := memory.NewConfigStoreWith(map[string]any{
		KeyProvider:        "openai",
		KeyTimeout:         int64(0),
		KeyLocationEnabled: true,
		KeyLocationSource:  "static",
		KeyLatitude:        47.6,
		KeyLongitude:       -122.3,
		KeyExportColumns:   []any{"name", "website"},
		KeyStorageBackend:  "sqlite",
	})
	svc := NewSettingsService(store, nil, nil)

	settings, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, settings.Retrieval.Provider)
	assert.Equal(t, "gpt-4o-mini", settings.Retrieval.Model)
	assert.Zero(t, settings.Retrieval.TimeoutSeconds)
	assert.True(t, settings.Location.Enabled)
	assert.Equal(t, domain.GeoProviderStatic, settings.Location.Provider)
	assert.InDelta(t, 47.6, settings.Location.Latitude, 1e-9)
	assert.Equal(t, []string{"name", "website"}, settings.Export.Columns)
	assert.Equal(t, domain.StorageSQLite, settings.Storage.Backend)
}

func TestSettingsService_Get_InvalidValuesFallBack(t *testing.T) {
	store := memory.NewConfigStoreWith(map[string]any{
		KeyProvider:       "ollama",
		KeyLocationSource: "gps",
		KeyStorageBackend: "postgres",
	})
	svc := NewSettingsService(store, nil, nil)

	settings, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderGemini, settings.Retrieval.Provider)
	assert.Equal(t, domain.GeoProviderIP, settings.Location.Provider)
	assert.Equal(t, domain.StorageMemory, settings.Storage.Backend)
}

func TestSettingsService_APIKeyResolution(t *testing.T) {
	t.Run("config wins", func(t *testing.T) {
		secrets := newMockSecretStore()
		secrets.secrets["gemini"] = "from-keyring"
		svc := NewSettingsService(memory.NewConfigStoreWith(map[string]any{KeyAPIKey: "from-config"}), secrets, nil)
		svc.SetAPIKeyFallback(func(domain.AIProvider) string { return "from-env" })

		s, err := svc.Get()
		require.NoError(t, err)
		assert.Equal(t, "from-config", s.Retrieval.APIKey)
	})

	t.Run("keyring second", func(t *testing.T) {
		secrets := newMockSecretStore()
		secrets.secrets["gemini"] = "from-keyring"
		svc := NewSettingsService(memory.NewConfigStore(), secrets, nil)
		svc.SetAPIKeyFallback(func(domain.AIProvider) string { return "from-env" })

		s, err := svc.Get()
		require.NoError(t, err)
		assert.Equal(t, "from-keyring", s.Retrieval.APIKey)
	})

	t.Run("fallback last", func(t *testing.T) {
		secrets := newMockSecretStore()
		secrets.getErr = errors.New("no keyring daemon")
		svc := NewSettingsService(memory.NewConfigStore(), secrets, nil)
		svc.SetAPIKeyFallback(func(p domain.AIProvider) string { return "env-" + p.String() })

		s, err := svc.Get()
		require.NoError(t, err)
		assert.Equal(t, "env-gemini", s.Retrieval.APIKey)
	})
}

func TestSettingsService_SetValue(t *testing.T) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store, nil, nil)

	require.NoError(t, svc.SetValue(KeyProvider, "OpenAI"))
	require.NoError(t, svc.SetValue(KeyModel, "gpt-4.1"))
	require.NoError(t, svc.SetValue(KeyTimeout, "30"))
	require.NoError(t, svc.SetValue(KeyLocationEnabled, "true"))
	require.NoError(t, svc.SetValue(KeyLatitude, "-33.86"))
	require.NoError(t, svc.SetValue(KeyExportColumns, "Name, Address ,phone"))
	require.NoError(t, svc.SetValue(KeyStorageBackend, "sqlite"))

	s, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, s.Retrieval.Provider)
	assert.Equal(t, "gpt-4.1", s.Retrieval.Model)
	assert.Equal(t, 30, s.Retrieval.TimeoutSeconds)
	assert.True(t, s.Location.Enabled)
	assert.InDelta(t, -33.86, s.Location.Latitude, 1e-9)
	assert.Equal(t, []string{"name", "address", "phone"}, s.Export.Columns)
	assert.Equal(t, domain.StorageSQLite, s.Storage.Backend)
}

func TestSettingsService_SetValue_Invalid(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore(), nil, nil)

	tests := []struct {
		key, value string
		want       error
	}{
		{KeyProvider, "anthropic", domain.ErrUnsupportedType},
		{KeyLocationSource, "gps", domain.ErrUnsupportedType},
		{KeyStorageBackend, "redis", domain.ErrUnsupportedType},
		{KeyTimeout, "-1", domain.ErrInvalidInput},
		{KeyTimeout, "soon", domain.ErrInvalidInput},
		{KeyLocationEnabled, "maybe", domain.ErrInvalidInput},
		{KeyLatitude, "95", domain.ErrInvalidInput},
		{KeyLongitude, "east", domain.ErrInvalidInput},
		{KeyExportColumns, "name,,phone", domain.ErrInvalidInput},
		{"retrieval.colour", "blue", domain.ErrInvalidInput},
		{KeyAPIKey, "  ", domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			assert.ErrorIs(t, svc.SetValue(tt.key, tt.value), tt.want)
		})
	}
}

func TestSettingsService_SetAPIKey_UsesSecretStore(t *testing.T) {
	store := memory.NewConfigStoreWith(map[string]any{KeyAPIKey: "old-plaintext"})
	secrets := newMockSecretStore()
	svc := NewSettingsService(store, secrets, nil)

	require.NoError(t, svc.SetAPIKey(" new-key "))

	assert.Equal(t, "new-key", secrets.secrets["gemini"])
	_, ok := store.Get(KeyAPIKey)
	assert.False(t, ok)

	s, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "new-key", s.Retrieval.APIKey)
}

func TestSettingsService_SetAPIKey_WithoutSecretStore(t *testing.T) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store, nil, nil)

	require.NoError(t, svc.SetAPIKey("plain"))

	assert.Equal(t, "plain", store.GetString(KeyAPIKey))
}

func TestSettingsService_SetAPIKey_SecretStoreFailure(t *testing.T) {
	secrets := newMockSecretStore()
	secrets.setErr = errors.New("locked")
	svc := NewSettingsService(memory.NewConfigStore(), secrets, nil)

	err := svc.SetAPIKey("k")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "locked")
}

func TestSettingsService_SetProvider(t *testing.T) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store, nil, nil)

	require.NoError(t, svc.SetProvider(domain.AIProviderOpenAI, ""))
	s, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, s.Retrieval.Provider)
	assert.Equal(t, "gpt-4o-mini", s.Retrieval.Model)

	require.NoError(t, svc.SetProvider(domain.AIProviderGemini, "gemini-2.5-pro"))
	s, err = svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-pro", s.Retrieval.Model)

	assert.ErrorIs(t, svc.SetProvider("nope", ""), domain.ErrUnsupportedType)
}

func TestSettingsService_Validate(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore(), nil, nil)
	assert.ErrorIs(t, svc.Validate(), domain.ErrNotConfigured)

	require.NoError(t, svc.SetAPIKey("k"))
	assert.NoError(t, svc.Validate())
}

func TestSettingsService_SaveRoundTrip(t *testing.T) {
	store := memory.NewConfigStore()
	secrets := newMockSecretStore()
	svc := NewSettingsService(store, secrets, nil)

	in := domain.DefaultAppSettings()
	in.Retrieval.APIKey = "k"
	in.Location.Enabled = true
	in.Location.Provider = domain.GeoProviderStatic
	in.Location.Latitude = 10
	in.Location.Longitude = 20
	in.Export.Columns = []string{"name", "website"}
	in.Export.Dir = "/tmp/out"

	require.NoError(t, svc.Save(&in))

	out, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, in, *out)
	assert.Equal(t, "k", secrets.secrets["gemini"])
	assert.Empty(t, store.GetString(KeyAPIKey))
}

func TestSettingsService_ValidateRetrievalConfig(t *testing.T) {
	store := memory.NewConfigStoreWith(map[string]any{KeyAPIKey: "k"})

	t.Run("no validator", func(t *testing.T) {
		svc := NewSettingsService(store, nil, nil)
		assert.NoError(t, svc.ValidateRetrievalConfig())
	})

	t.Run("validator called", func(t *testing.T) {
		v := &mockValidator{err: errors.New("bad key")}
		svc := NewSettingsService(store, nil, v)
		err := svc.ValidateRetrievalConfig()
		assert.EqualError(t, err, "bad key")
		require.NotNil(t, v.seen)
		assert.Equal(t, "k", v.seen.APIKey)
	})
}

func TestSettingKeys(t *testing.T) {
	keys := SettingKeys()
	assert.Contains(t, keys, KeyProvider)
	assert.Contains(t, keys, KeyStorageBackend)
	assert.Len(t, keys, 13)
}
