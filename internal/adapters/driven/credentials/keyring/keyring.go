// Package keyring stores account passwords in the operating system keyring
// (macOS Keychain, Windows Credential Manager, Secret Service on Linux).
package keyring

import (
	"errors"
	"fmt"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/custodia-labs/autojoin/internal/core/domain"
	"github.com/custodia-labs/autojoin/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.CredentialStore = (*Store)(nil)

// Store is a driven.CredentialStore over the OS keyring. Entries are keyed
// by service (e.g. "autojoin_zoom") and account email.
type Store struct{}

// New creates a keyring-backed credential store.
func New() *Store {
	return &Store{}
}

// Get returns the secret for service and account, or domain.ErrNotFound.
func (s *Store) Get(service, account string) (string, error) {
	secret, err := gokeyring.Get(service, account)
	if err != nil {
		return "", mapError("read", err)
	}
	return secret, nil
}

// Set stores or replaces a secret.
func (s *Store) Set(service, account, secret string) error {
	if err := gokeyring.Set(service, account, secret); err != nil {
		return mapError("write", err)
	}
	return nil
}

// Delete removes a secret, returning domain.ErrNotFound when absent.
func (s *Store) Delete(service, account string) error {
	if err := gokeyring.Delete(service, account); err != nil {
		return mapError("delete", err)
	}
	return nil
}

func mapError(op string, err error) error {
	if errors.Is(err, gokeyring.ErrNotFound) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("keyring %s: %w", op, err)
}
