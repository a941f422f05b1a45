package handlers

import (
	"strings"

	"github.com/custodia-labs/autojoin/internal/core/domain"
)

const zoomBaseURL = "https://zoom.us"

func zoomVariant() *variant {
	return &variant{
		platform: domain.PlatformZoom,

		sessionCookies:   []string{"_zm_ssid", "_zm_chtaid"},
		profileURL:       zoomBaseURL + "/profile",
		loggedInSelector: ".profile-info",
		accountSelector:  ".profile-email",

		logoutURL: zoomBaseURL + "/profile",
		logoutSteps: []Step{
			{Name: "sign out", Selector: "[aria-label='Sign Out']", Action: ActionClick, Required: true, Settle: settle},
		},

		logins: []loginFlow{
			{
				name:    "zoom",
				service: domain.PlatformZoom.CredentialService(),
				url:     zoomBaseURL + "/signin",
				steps: []Step{
					{Name: "email", Selector: "#email", Action: ActionType, Value: ValueEmail, Required: true},
					{Name: "password", Selector: "#password", Action: ActionType, Value: ValueSecret, Required: true},
					{Name: "sign in", Selector: "[type='submit']", Action: ActionClick, Required: true, Settle: settle},
				},
			},
			{
				name:    "zoom google sign-in",
				service: domain.GoogleAccountService,
				url:     zoomBaseURL + "/google/oauth",
				steps: append([]Step{
					{Name: "google button", Selector: "[data-google-signin]", Action: ActionClick, Settle: settle},
				}, googleLoginSteps()...),
			},
		},

		appArgs:   zoomAppArgs,
		joinURL:   zoomJoinURL,
		joinSteps: zoomJoinSteps(),
	}
}

// zoomAppArgs builds the desktop client arguments: a URL when present,
// otherwise the meeting id and optional passcode.
func zoomAppArgs(req domain.JoinRequest) []string {
	if req.URL != "" {
		return []string{"--url=" + req.URL}
	}
	args := []string{"--join", "--meetingid", normaliseMeetingID(req.MeetingID)}
	if req.Password != "" {
		args = append(args, "--password", req.Password)
	}
	return args
}

// zoomJoinURL prefers the meeting link and falls back to the join-by-id page.
func zoomJoinURL(req domain.JoinRequest) (string, error) {
	if req.URL != "" {
		return req.URL, nil
	}
	id := normaliseMeetingID(req.MeetingID)
	if id == "" {
		return "", &domain.ValidationError{Field: "url", Reason: "or meeting_id is required"}
	}
	return zoomBaseURL + "/j/" + id, nil
}

func zoomJoinSteps() []Step {
	return []Step{
		{Name: "join from browser", Selector: "a[web_client]", Action: ActionClick, Settle: settle},
		{Name: "display name", Selector: "#inputname", Action: ActionReplace, Value: ValueDisplayName},
		{Name: "passcode", Selector: "#inputpasscode", Action: ActionType, Value: ValuePassword},
		{Name: "join", Selector: "button[type='submit']", Action: ActionClick, Required: true},
	}
}

// normaliseMeetingID strips the separators people paste with meeting ids.
func normaliseMeetingID(id string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(id))
}
