package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/autojoin/internal/core/domain"
	"github.com/custodia-labs/autojoin/internal/core/ports/driven"
	"github.com/custodia-labs/autojoin/internal/core/ports/driving"
)

// Ensure CredentialsService implements the interface.
var _ driving.CredentialsService = (*CredentialsService)(nil)

// CredentialsService manages account passwords in the credential store.
type CredentialsService struct {
	store driven.CredentialStore
}

// NewCredentialsService creates a new credentials service.
func NewCredentialsService(store driven.CredentialStore) *CredentialsService {
	return &CredentialsService{
		store: store,
	}
}

// Set stores the password for an account on a platform.
func (s *CredentialsService) Set(platform domain.Platform, email, secret string) error {
	if err := s.check(platform, email); err != nil {
		return err
	}
	if secret == "" {
		return fmt.Errorf("%w: empty password", domain.ErrInvalidInput)
	}
	return s.store.Set(platform.CredentialService(), email, secret)
}

// Delete removes a stored password.
func (s *CredentialsService) Delete(platform domain.Platform, email string) error {
	if err := s.check(platform, email); err != nil {
		return err
	}
	return s.store.Delete(platform.CredentialService(), email)
}

// Has reports whether a password is stored.
func (s *CredentialsService) Has(platform domain.Platform, email string) (bool, error) {
	if err := s.check(platform, email); err != nil {
		return false, err
	}
	_, err := s.store.Get(platform.CredentialService(), email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return false, nil
	case err != nil:
		return false, err
	default:
		return true, nil
	}
}

// SetGoogle stores a Google account password.
func (s *CredentialsService) SetGoogle(email, secret string) error {
	return s.Set(domain.PlatformGoogleMeet, email, secret)
}

func (s *CredentialsService) check(platform domain.Platform, email string) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	if !platform.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedPlatform, platform)
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("%w: %q is not an email address", domain.ErrInvalidInput, email)
	}
	return nil
}
