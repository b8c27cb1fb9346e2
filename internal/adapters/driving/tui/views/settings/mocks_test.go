package settings

import (
	"github.com/stretchr/testify/mock"

	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
)

// MockSettingsService is a mock implementation of driving.SettingsService.
type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Get() (*domain.AppSettings, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AppSettings), args.Error(1)
}

func (m *MockSettingsService) Save(settings *domain.AppSettings) error {
	args := m.Called(settings)
	return args.Error(0)
}

func (m *MockSettingsService) SetValue(key, value string) error {
	args := m.Called(key, value)
	return args.Error(0)
}

func (m *MockSettingsService) SetProvider(provider domain.AIProvider, model string) error {
	args := m.Called(provider, model)
	return args.Error(0)
}

func (m *MockSettingsService) SetAPIKey(apiKey string) error {
	args := m.Called(apiKey)
	return args.Error(0)
}

func (m *MockSettingsService) Validate() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSettingsService) GetDefaults() domain.AppSettings {
	args := m.Called()
	return args.Get(0).(domain.AppSettings)
}

func (m *MockSettingsService) ValidateRetrievalConfig() error {
	args := m.Called()
	return args.Error(0)
}

func testSettings() *domain.AppSettings {
	s := domain.DefaultAppSettings()
	s.Retrieval.APIKey = "secret"
	return &s
}
