// Package keyring stores provider API keys in the OS keychain.
package keyring

import (
	"errors"
	"fmt"
	"strings"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/bfreelanceseo/MapScraperPro/internal/core/ports/driven"
)

// Ensure SecretStore implements the interface.
var _ driven.SecretStore = (*SecretStore)(nil)

// DefaultService groups the application's secrets in the OS keychain.
const DefaultService = "mapscraper"

// SecretStore implements driven.SecretStore using zalando/go-keyring.
type SecretStore struct {
	service string
}

// NewSecretStore creates a store under the given keychain service.
// An empty service uses DefaultService.
func NewSecretStore(service string) *SecretStore {
	if service == "" {
		service = DefaultService
	}
	return &SecretStore{service: service}
}

// account maps a provider to its keychain account name.
func account(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider)) + "-api-key"
}

// Get returns the stored key, or "" when none exists.
func (s *SecretStore) Get(provider string) (string, error) {
	secret, err := gokeyring.Get(s.service, account(provider))
	if errors.Is(err, gokeyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading keyring: %w", err)
	}
	return secret, nil
}

// Set stores the key for a provider.
func (s *SecretStore) Set(provider, secret string) error {
	if strings.TrimSpace(provider) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(secret) == "" {
		return errors.New("secret is empty")
	}
	if err := gokeyring.Set(s.service, account(provider), secret); err != nil {
		return fmt.Errorf("writing keyring: %w", err)
	}
	return nil
}

// Delete removes the key for a provider. Missing keys are ignored.
func (s *SecretStore) Delete(provider string) error {
	err := gokeyring.Delete(s.service, account(provider))
	if err != nil && !errors.Is(err, gokeyring.ErrNotFound) {
		return fmt.Errorf("deleting from keyring: %w", err)
	}
	return nil
}
