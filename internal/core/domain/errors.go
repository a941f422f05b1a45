package domain

import (
	"context"
	"errors"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedPlatform indicates a meeting platform with no handler.
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrValidation indicates a meeting was rejected at registration.
	// Validation failures never reach persistence.
	ErrValidation = errors.New("validation failed")

	// ErrPersistence indicates the meeting snapshot could not be read or written.
	// The process keeps running with its in-memory state.
	ErrPersistence = errors.New("persistence failed")

	// ErrStopTimeout indicates the scheduler loop did not terminate in time.
	ErrStopTimeout = errors.New("scheduler stop timed out")

	// Join attempt errors.

	// ErrCredentialMissing indicates no stored secret exists for the account
	// that must log in. Fatal for the attempt; never retried.
	ErrCredentialMissing = errors.New("credential missing")

	// ErrRemoteSurfaceTimeout indicates a required element never appeared
	// on the remote surface within the step timeout.
	ErrRemoteSurfaceTimeout = errors.New("remote surface element not found")

	// ErrAccountMismatchAborted indicates the mismatch decision was "abort".
	ErrAccountMismatchAborted = errors.New("account mismatch aborted")

	// ErrAppLaunch indicates the native application could not be spawned.
	ErrAppLaunch = errors.New("app launch failed")

	// ErrLoginFailed indicates the authentication flow ran but the logged-in
	// indicator never appeared.
	ErrLoginFailed = errors.New("login failed")
)

// FailureReason is the human-readable class of a failed join attempt.
type FailureReason string

// Failure reason classes reported with every failed attempt.
const (
	ReasonNone              FailureReason = ""
	ReasonValidation        FailureReason = "validation"
	ReasonCredentialMissing FailureReason = "credential_missing"
	ReasonElementNotFound   FailureReason = "element_not_found"
	ReasonMismatchAborted   FailureReason = "mismatch_aborted"
	ReasonAppLaunch         FailureReason = "app_launch"
	ReasonLoginFailed       FailureReason = "login_failed"
	ReasonCancelled         FailureReason = "cancelled"
	ReasonUnsupported       FailureReason = "unsupported_platform"
	ReasonInternal          FailureReason = "internal"
)

// String returns the string representation.
func (r FailureReason) String() string {
	return string(r)
}

// Description returns a sentence suitable for showing to the user.
func (r FailureReason) Description() string {
	switch r {
	case ReasonNone:
		return "joined"
	case ReasonValidation:
		return "meeting details are incomplete for this platform"
	case ReasonCredentialMissing:
		return "no stored credentials for the required account"
	case ReasonElementNotFound:
		return "the meeting page did not show an expected control"
	case ReasonMismatchAborted:
		return "join cancelled because a different account was signed in"
	case ReasonAppLaunch:
		return "the meeting application could not be started"
	case ReasonLoginFailed:
		return "signing in to the required account failed"
	case ReasonCancelled:
		return "the attempt was cancelled"
	case ReasonUnsupported:
		return "the platform is not supported"
	default:
		return "an unexpected error occurred"
	}
}

// ReasonOf classifies an attempt error. A nil error has no reason.
func ReasonOf(err error) FailureReason {
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, ErrCredentialMissing):
		return ReasonCredentialMissing
	case errors.Is(err, ErrAccountMismatchAborted):
		return ReasonMismatchAborted
	case errors.Is(err, ErrLoginFailed):
		return ReasonLoginFailed
	case errors.Is(err, ErrRemoteSurfaceTimeout):
		return ReasonElementNotFound
	case errors.Is(err, ErrAppLaunch):
		return ReasonAppLaunch
	case errors.Is(err, ErrValidation):
		return ReasonValidation
	case errors.Is(err, ErrUnsupportedPlatform):
		return ReasonUnsupported
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ReasonCancelled
	default:
		return ReasonInternal
	}
}

// ValidationError describes why a meeting was rejected.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements error.
func (e *ValidationError) Error() string {
	return "invalid meeting: " + e.Field + " " + e.Reason
}

// Unwrap returns ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
