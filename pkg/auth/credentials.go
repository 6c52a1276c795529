package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	errs "lipost/pkg/errors"
)

// TokenEnvVar is the environment variable checked before any stored token
const TokenEnvVar = "LINKEDIN_TOKEN"

const loginRemediation = "run `lipost auth login` or `export " + TokenEnvVar + "=<YOUR_TOKEN>` in your current shell"

// Credential is a stored LinkedIn bearer token
type Credential struct {
	Token        string    `json:"token"`
	LastModified time.Time `json:"last_modified"`
}

// TokenStore is the interface for storing and retrieving the bearer token
type TokenStore interface {
	// Name identifies the store in status output
	Name() string

	// Store saves the credential, replacing any previous one
	Store(cred *Credential) error

	// Retrieve returns the stored credential or ErrCredentialsNotFound
	Retrieve() (*Credential, error)

	// Delete removes the stored credential
	Delete() error
}

// Manager resolves the token from several stores in priority order
type Manager struct {
	stores []TokenStore
}

// NewManager creates a manager reading the environment first, then the
// system keychain when available, then an encrypted file
func NewManager() (*Manager, error) {
	stores := []TokenStore{NewEnvironmentStore()}

	if keyringStore, err := NewKeyringStore(); err == nil {
		stores = append(stores, keyringStore)
	}

	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	encryptedStore, err := NewEncryptedFileStore(filepath.Join(configDir, "credentials.enc"))
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypted store: %w", err)
	}
	stores = append(stores, encryptedStore)

	return &Manager{stores: stores}, nil
}

// NewManagerWithStores creates a manager over the given stores, in order
func NewManagerWithStores(stores ...TokenStore) *Manager {
	return &Manager{stores: stores}
}

// Resolve returns the first token found and the name of the store holding it.
// When no store has one it returns a config error naming LINKEDIN_TOKEN.
func (m *Manager) Resolve() (string, string, error) {
	for _, store := range m.stores {
		cred, err := store.Retrieve()
		if err != nil || cred == nil {
			continue
		}
		if token := strings.TrimSpace(cred.Token); token != "" {
			return token, store.Name(), nil
		}
	}
	return "", "", errs.NewConfigError(TokenEnvVar, loginRemediation)
}

// Store saves token in the first writable store and returns its name
func (m *Manager) Store(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrInvalidCredentials
	}

	cred := &Credential{Token: token, LastModified: time.Now()}

	var lastErr error
	for _, store := range m.stores {
		err := store.Store(cred)
		if err == nil {
			return store.Name(), nil
		}
		if !errors.Is(err, ErrStoreUnavailable) {
			lastErr = err
		}
	}

	if lastErr != nil {
		return "", fmt.Errorf("failed to store token: %w", lastErr)
	}
	return "", errors.New("no writable token stores")
}

// Delete removes the token from every writable store
func (m *Manager) Delete() error {
	var deleted bool
	var lastErr error

	for _, store := range m.stores {
		err := store.Delete()
		switch {
		case err == nil:
			deleted = true
		case errors.Is(err, ErrStoreUnavailable), errors.Is(err, ErrCredentialsNotFound):
		default:
			lastErr = err
		}
	}

	if !deleted && lastErr != nil {
		return fmt.Errorf("failed to delete token: %w", lastErr)
	}
	if !deleted {
		return ErrCredentialsNotFound
	}

	return nil
}

// StoreNames lists the configured stores in lookup order
func (m *Manager) StoreNames() []string {
	names := make([]string, 0, len(m.stores))
	for _, store := range m.stores {
		names = append(names, store.Name())
	}
	return names
}

// getConfigDir returns the configuration directory path
func getConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, "Library", "Application Support", "lipost")
	case "windows":
		configDir = filepath.Join(os.Getenv("APPDATA"), "lipost")
	default:
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			configDir = filepath.Join(xdgConfig, "lipost")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			configDir = filepath.Join(home, ".config", "lipost")
		}
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// MaskToken masks all but the first 4 and last 4 characters of a token
func MaskToken(s string) string {
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

// Errors
var (
	ErrCredentialsNotFound = errors.New("credentials not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrStoreUnavailable    = errors.New("credential store unavailable")
)
