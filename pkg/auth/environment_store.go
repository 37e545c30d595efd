package auth

import (
	"os"
	"time"

	"mediascraper/pkg/config"
)

// EnvironmentStore implements CredentialStore using environment
// variables. Only Instagram credentials can be supplied this way, and
// the store is read-only.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(account *Account) error {
	return ErrStoreUnavailable
}

// Retrieve gets credentials from environment variables
func (e *EnvironmentStore) Retrieve(domain string) (*Account, error) {
	if domain != "" && domain != config.InstagramDomain {
		return nil, ErrCredentialsNotFound
	}

	username := os.Getenv(config.EnvInstagramUsername)
	password := os.Getenv(config.EnvInstagramPassword)
	if username == "" || password == "" {
		return nil, ErrCredentialsNotFound
	}

	return &Account{
		Domain:       config.InstagramDomain,
		Username:     username,
		Password:     password,
		LastModified: time.Now(),
	}, nil
}

// List returns a single account if environment variables are set
func (e *EnvironmentStore) List() ([]*Account, error) {
	account, err := e.Retrieve("")
	if err != nil {
		return []*Account{}, nil
	}
	return []*Account{account}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(domain string) error {
	return ErrStoreUnavailable
}

// Exists checks if environment credentials exist
func (e *EnvironmentStore) Exists(domain string) bool {
	_, err := e.Retrieve(domain)
	return err == nil
}
