package google

import (
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"
)

// Google API errors.
var (
	// ErrNotAuthorised means no token is stored; run the authorisation flow.
	ErrNotAuthorised = errors.New("google: calendar access not authorised")

	// ErrUnauthorised indicates invalid or expired credentials.
	ErrUnauthorised = errors.New("google: unauthorised (invalid credentials)")

	// ErrForbidden indicates insufficient permissions.
	ErrForbidden = errors.New("google: forbidden (insufficient permissions)")

	// ErrCalendarNotFound indicates the calendar id does not exist.
	ErrCalendarNotFound = errors.New("google: calendar not found")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("google: rate limit exceeded")
)

// wrapError converts a Google API error to one of the errors above.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}

	switch gerr.Code {
	case http.StatusUnauthorized:
		return ErrUnauthorised
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrCalendarNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return err
	}
}
