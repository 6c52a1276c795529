package auth

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "lipost"
	keyringUser    = "linkedin_token"
)

// KeyringStore implements TokenStore using the system keychain
type KeyringStore struct{}

// NewKeyringStore creates a new keyring-based token store. It fails when the
// system keychain cannot be written.
func NewKeyringStore() (*KeyringStore, error) {
	testKey := "test_availability"
	err := keyring.Set(keyringService, testKey, "test")
	if err != nil {
		return nil, fmt.Errorf("keyring not available: %w", err)
	}
	_ = keyring.Delete(keyringService, testKey)

	return &KeyringStore{}, nil
}

func (k *KeyringStore) Name() string { return "keyring" }

// Store saves the credential to the system keychain
func (k *KeyringStore) Store(cred *Credential) error {
	if cred == nil || cred.Token == "" {
		return ErrInvalidCredentials
	}

	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("failed to marshal credential: %w", err)
	}

	if err := keyring.Set(keyringService, keyringUser, string(data)); err != nil {
		return fmt.Errorf("failed to store in keyring: %w", err)
	}

	return nil
}

// Retrieve gets the credential from the system keychain
func (k *KeyringStore) Retrieve() (*Credential, error) {
	data, err := keyring.Get(keyringService, keyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, ErrCredentialsNotFound
		}
		return nil, fmt.Errorf("failed to retrieve from keyring: %w", err)
	}

	var cred Credential
	if err := json.Unmarshal([]byte(data), &cred); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credential: %w", err)
	}

	return &cred, nil
}

// Delete removes the credential from the system keychain
func (k *KeyringStore) Delete() error {
	err := keyring.Delete(keyringService, keyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrCredentialsNotFound
		}
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}

	return nil
}
