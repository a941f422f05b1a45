package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"
)

// Common log attribute keys.
const (
	KeyComponent = "component"
	KeyMeeting   = "meeting_id"
	KeyPlatform  = "platform"
	KeyAccount   = "account"
	KeyPath      = "path"
	KeyReason    = "reason"
	KeyDuration  = "duration"
	KeyError     = "error"
)

// Component returns a logger tagged with the component name.
func Component(name string) *slog.Logger {
	return L().With(slog.String(KeyComponent, name))
}

// Meeting returns a slog attribute for a meeting id.
func Meeting(id string) slog.Attr {
	return slog.String(KeyMeeting, id)
}

// Platform returns a slog attribute for a platform tag.
func Platform(p string) slog.Attr {
	return slog.String(KeyPlatform, p)
}

// Account returns a slog attribute with the account anonymised.
func Account(email string) slog.Attr {
	return slog.String(KeyAccount, AnonymizeEmail(email))
}

// Duration returns a slog attribute for an elapsed time.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration(KeyDuration, d)
}

// Err returns a slog attribute for an error.
// A nil error yields an empty group that slog omits.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// AnonymizeEmail returns a stable hash of an email address so log lines
// can be correlated without exposing it.
func AnonymizeEmail(email string) string {
	if email == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(email))
	return "user:" + hex.EncodeToString(hash[:8])
}
