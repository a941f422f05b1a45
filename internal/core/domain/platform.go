package domain

import (
	"fmt"
	"strings"
)

// Platform identifies a supported meeting service.
// The string value is the canonical lowercase tag used in persistence.
type Platform string

// Supported platforms.
const (
	PlatformZoom       Platform = "zoom"
	PlatformGoogleMeet Platform = "google_meet"
	PlatformTeams      Platform = "teams"
)

// CredentialServicePrefix namespaces keyring entries per platform.
const CredentialServicePrefix = "autojoin_"

// GoogleAccountService is the credential service for Google accounts,
// shared by Google Meet and Zoom's Google sign-in.
const GoogleAccountService = CredentialServicePrefix + "google"

// AllPlatforms returns the supported platforms in display order.
func AllPlatforms() []Platform {
	return []Platform{PlatformZoom, PlatformGoogleMeet, PlatformTeams}
}

// ParsePlatform converts a tag or common alias into a Platform.
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "zoom":
		return PlatformZoom, nil
	case "google_meet", "google-meet", "googlemeet", "meet", "google meet":
		return PlatformGoogleMeet, nil
	case "teams", "msteams", "microsoft_teams", "microsoft teams":
		return PlatformTeams, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedPlatform, s)
	}
}

// IsValid returns true if the platform is recognised.
func (p Platform) IsValid() bool {
	switch p {
	case PlatformZoom, PlatformGoogleMeet, PlatformTeams:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p Platform) String() string {
	return string(p)
}

// DisplayName returns a human-readable platform name.
func (p Platform) DisplayName() string {
	switch p {
	case PlatformZoom:
		return "Zoom"
	case PlatformGoogleMeet:
		return "Google Meet"
	case PlatformTeams:
		return "Microsoft Teams"
	default:
		return unknownDescription
	}
}

// HasNativeApp returns true if the platform ships a desktop client
// that can be spawned to join a meeting.
func (p Platform) HasNativeApp() bool {
	return p == PlatformZoom || p == PlatformTeams
}

// SupportsMeetingID returns true if a meeting can be joined from a numeric ID
// without a URL.
func (p Platform) SupportsMeetingID() bool {
	return p == PlatformZoom
}

// RequiresURL returns true if meetings on this platform must carry a URL.
func (p Platform) RequiresURL() bool {
	return !p.SupportsMeetingID()
}

// CredentialService returns the credential-store service name for the platform.
// Meet signs in with a Google account, so it shares GoogleAccountService.
func (p Platform) CredentialService() string {
	if p == PlatformGoogleMeet {
		return GoogleAccountService
	}
	return CredentialServicePrefix + string(p)
}

const unknownDescription = "Unknown"
