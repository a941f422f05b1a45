package handlers

import "github.com/custodia-labs/autojoin/internal/core/domain"

const teamsBaseURL = "https://teams.microsoft.com"

func teamsVariant() *variant {
	return &variant{
		platform:    domain.PlatformTeams,
		mediaOrigin: teamsBaseURL,

		sessionCookies:   []string{"MSTS", "TSAUTH"},
		profileURL:       teamsBaseURL + "/_#/profile",
		loggedInSelector: ".profile-card",
		accountSelector:  ".profile-card .email",

		logoutURL: teamsBaseURL + "/_#/profile",
		logoutSteps: []Step{
			{Name: "sign out", Selector: "[data-tid='logout-button']", Action: ActionClick, Required: true, Settle: settle},
		},

		logins: []loginFlow{
			{
				name:    "microsoft",
				service: domain.PlatformTeams.CredentialService(),
				url:     teamsBaseURL + "/signin",
				steps: []Step{
					{Name: "email", Selector: "[type='email']", Action: ActionType, Value: ValueEmail, Required: true},
					{Name: "next", Selector: "[type='submit']", Action: ActionClick, Required: true, Settle: settle},
					{Name: "password", Selector: "[type='password']", Action: ActionType, Value: ValueSecret, Required: true},
					{Name: "sign in", Selector: "[type='submit']", Action: ActionClick, Required: true, Settle: settle},
					{Name: "stay signed in", Selector: "[value='Yes']", Action: ActionClick, Settle: settle},
				},
			},
		},

		appArgs: func(req domain.JoinRequest) []string {
			return []string{"--url", req.URL}
		},
		joinURL:   urlOnly(domain.PlatformTeams),
		joinSteps: teamsJoinSteps(),
	}
}

func teamsJoinSteps() []Step {
	return []Step{
		{Name: "continue in browser", Selector: "button[data-tid='joinOnWeb']", Action: ActionClick, Settle: settle},
		{Name: "display name", Selector: "input[data-tid='prejoin-display-name-input']", Action: ActionReplace, Value: ValueDisplayName},
		{Name: "join", Selector: "button[data-tid='join-btn']", Action: ActionClick, Required: true},
	}
}

// urlOnly builds a joinURL for platforms with no meeting-id join path.
func urlOnly(p domain.Platform) func(domain.JoinRequest) (string, error) {
	return func(req domain.JoinRequest) (string, error) {
		if req.URL == "" {
			return "", &domain.ValidationError{Field: "url", Reason: "is required for " + p.DisplayName()}
		}
		return req.URL, nil
	}
}
