package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
)

func TestVerboseRequested(t *testing.T) {
	assert.True(t, verboseRequested([]string{"search", "-v", "cafes"}))
	assert.True(t, verboseRequested([]string{"--verbose", "tui"}))
	assert.False(t, verboseRequested([]string{"search", "cafes"}))
	assert.False(t, verboseRequested([]string{"search", "--", "-v"}))
}

func TestAPIKeyFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "fallback")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	assert.Equal(t, "fallback", apiKeyFromEnv(domain.AIProviderGemini))
	assert.Equal(t, "sk-test", apiKeyFromEnv(domain.AIProviderOpenAI))

	t.Setenv("GEMINI_API_KEY", "primary")
	assert.Equal(t, "primary", apiKeyFromEnv(domain.AIProviderGemini))
}

func TestNewGeolocator(t *testing.T) {
	static := newGeolocator(domain.LocationSettings{Provider: domain.GeoProviderStatic, Latitude: 1, Longitude: 2})
	assert.NotNil(t, static)

	ip := newGeolocator(domain.LocationSettings{Provider: domain.GeoProviderIP})
	assert.NotNil(t, ip)

	assert.Nil(t, newGeolocator(domain.LocationSettings{Provider: "gps"}))
}

func TestNewRetrieverFactory_NotConfigured(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.Retrieval.APIKey = ""

	r, err := newRetrieverFactory(nil).Create(&settings.Retrieval)
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
	assert.Nil(t, r)
}

func TestSeconds(t *testing.T) {
	assert.Equal(t, time.Duration(0), seconds(0))
	assert.Equal(t, time.Duration(0), seconds(-3))
	assert.Equal(t, 5*time.Second, seconds(5))
}
