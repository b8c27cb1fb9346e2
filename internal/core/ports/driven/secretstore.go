package driven

// SecretStore keeps credentials outside the config file.
type SecretStore interface {
	// Get returns the secret for a provider.
	// Returns an empty string and no error when none is stored.
	Get(provider string) (string, error)

	// Set stores the secret for a provider.
	Set(provider, secret string) error

	// Delete removes the secret for a provider. Missing secrets are not an error.
	Delete(provider string) error
}
