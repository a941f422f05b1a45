package memory

import (
	"sync"

	"github.com/custodia-labs/autojoin/internal/core/domain"
	"github.com/custodia-labs/autojoin/internal/core/ports/driven"
)

// Ensure CredentialStore implements the interface.
var _ driven.CredentialStore = (*CredentialStore)(nil)

// CredentialStore is an in-memory driven.CredentialStore.
type CredentialStore struct {
	mu      sync.RWMutex
	secrets map[credentialKey]string
}

type credentialKey struct {
	service string
	account string
}

// NewCredentialStore creates a new in-memory credential store.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{secrets: make(map[credentialKey]string)}
}

// Get returns a secret or domain.ErrNotFound.
func (s *CredentialStore) Get(service, account string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	secret, ok := s.secrets[credentialKey{service, account}]
	if !ok {
		return "", domain.ErrNotFound
	}
	return secret, nil
}

// Set stores a secret.
func (s *CredentialStore) Set(service, account, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secrets[credentialKey{service, account}] = secret
	return nil
}

// Delete removes a secret or returns domain.ErrNotFound.
func (s *CredentialStore) Delete(service, account string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := credentialKey{service, account}
	if _, ok := s.secrets[key]; !ok {
		return domain.ErrNotFound
	}
	delete(s.secrets, key)
	return nil
}
