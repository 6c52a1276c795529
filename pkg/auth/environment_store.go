package auth

import (
	"os"
	"strings"
	"time"
)

// EnvironmentStore reads the token from LINKEDIN_TOKEN. It is read-only.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based token store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

func (e *EnvironmentStore) Name() string { return "environment" }

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(cred *Credential) error {
	return ErrStoreUnavailable
}

// Retrieve gets the token from the environment
func (e *EnvironmentStore) Retrieve() (*Credential, error) {
	token := strings.TrimSpace(os.Getenv(TokenEnvVar))
	if token == "" {
		return nil, ErrCredentialsNotFound
	}

	return &Credential{
		Token:        token,
		LastModified: time.Now(),
	}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete() error {
	return ErrStoreUnavailable
}
