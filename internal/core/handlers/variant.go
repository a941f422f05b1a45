package handlers

import (
	"time"

	"github.com/custodia-labs/autojoin/internal/core/domain"
)

// settle is the pause after a submit, before the next page is probed.
const settle = 2 * time.Second

// variant holds everything platform-specific. The engine in handler.go and
// reconcile.go is shared by all platforms.
type variant struct {
	platform domain.Platform

	// mediaOrigin, when set, is pre-authorised for camera and microphone
	// once per handler.
	mediaOrigin string

	// Session probe.
	sessionCookies   []string
	profileURL       string
	loggedInSelector string
	accountSelector  string
	accountAttribute string

	// Logout.
	logoutURL   string
	logoutSteps []Step

	// logins are tried in order; later flows are fallbacks.
	logins []loginFlow

	// appArgs builds the native app arguments. Nil means no app path.
	appArgs func(req domain.JoinRequest) []string

	// joinURL builds the browser navigation target.
	joinURL func(req domain.JoinRequest) (string, error)

	joinSteps []Step
}

// loginFlow is one way of authenticating an account.
type loginFlow struct {
	name string

	// service is the credential-store service holding the secret.
	service string

	url   string
	steps []Step
}

// variantFor returns the platform's variant.
func variantFor(p domain.Platform) (*variant, error) {
	switch p {
	case domain.PlatformZoom:
		return zoomVariant(), nil
	case domain.PlatformTeams:
		return teamsVariant(), nil
	case domain.PlatformGoogleMeet:
		return meetVariant(), nil
	default:
		return nil, domain.ErrUnsupportedPlatform
	}
}

// googleLoginSteps drive the Google account sign-in form. They are shared by
// Meet and by Zoom's Google sign-in fallback.
func googleLoginSteps() []Step {
	return []Step{
		{Name: "google email", Selector: "input[type='email']", Action: ActionType, Value: ValueEmail, Required: true},
		{Name: "google email next", Selector: "#identifierNext", Action: ActionClick, Required: true, Settle: settle},
		{Name: "google password", Selector: "input[type='password']", Action: ActionType, Value: ValueSecret, Required: true},
		{Name: "google password next", Selector: "#passwordNext", Action: ActionClick, Required: true, Settle: settle},
	}
}
