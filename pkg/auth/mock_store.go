package auth

import (
	"sync"
)

// MockStore implements TokenStore in memory for testing purposes
type MockStore struct {
	name string
	cred *Credential
	mu   sync.RWMutex

	// Error injection for testing
	StoreError    error
	RetrieveError error
	DeleteError   error
}

// NewMockStore creates a new mock token store
func NewMockStore(name string) *MockStore {
	return &MockStore{name: name}
}

func (m *MockStore) Name() string { return m.name }

// Store saves a copy of the credential
func (m *MockStore) Store(cred *Credential) error {
	if m.StoreError != nil {
		return m.StoreError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if cred == nil || cred.Token == "" {
		return ErrInvalidCredentials
	}

	credCopy := *cred
	m.cred = &credCopy
	return nil
}

// Retrieve returns a copy of the stored credential
func (m *MockStore) Retrieve() (*Credential, error) {
	if m.RetrieveError != nil {
		return nil, m.RetrieveError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.cred == nil {
		return nil, ErrCredentialsNotFound
	}

	credCopy := *m.cred
	return &credCopy, nil
}

// Delete removes the stored credential
func (m *MockStore) Delete() error {
	if m.DeleteError != nil {
		return m.DeleteError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cred == nil {
		return ErrCredentialsNotFound
	}
	m.cred = nil
	return nil
}

// Token returns the stored token, or "" (useful for testing)
func (m *MockStore) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.cred == nil {
		return ""
	}
	return m.cred.Token
}

// NewMockManager creates a Manager over a single mock store for testing
func NewMockManager() (*Manager, *MockStore) {
	mockStore := NewMockStore("mock")
	return NewManagerWithStores(mockStore), mockStore
}
