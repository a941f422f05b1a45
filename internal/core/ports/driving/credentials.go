package driving

import "github.com/custodia-labs/autojoin/internal/core/domain"

// CredentialsService manages account secrets used by the login flows.
type CredentialsService interface {
	// Set stores the password for an account on a platform.
	Set(platform domain.Platform, email, secret string) error

	// Delete removes a stored password.
	Delete(platform domain.Platform, email string) error

	// Has reports whether a password is stored.
	Has(platform domain.Platform, email string) (bool, error)

	// SetGoogle stores the password for a Google account, used by Meet and
	// by Zoom's Google sign-in.
	SetGoogle(email, secret string) error
}
