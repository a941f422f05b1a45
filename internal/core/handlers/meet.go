package handlers

import "github.com/custodia-labs/autojoin/internal/core/domain"

// Meet has no native app; every join goes through the browser.
func meetVariant() *variant {
	return &variant{
		platform:    domain.PlatformGoogleMeet,
		mediaOrigin: "https://meet.google.com",

		sessionCookies:   []string{"SID", "__Secure-1PSID"},
		profileURL:       "https://myaccount.google.com/",
		loggedInSelector: "a[href^='https://accounts.google.com/SignOutOptions']",
		accountSelector:  "a[href^='https://accounts.google.com/SignOutOptions']",
		accountAttribute: "aria-label",

		logoutURL: "https://accounts.google.com/Logout",

		logins: []loginFlow{
			{
				name:    "google",
				service: domain.GoogleAccountService,
				url:     "https://accounts.google.com/signin",
				steps:   googleLoginSteps(),
			},
		},

		joinURL: urlOnly(domain.PlatformGoogleMeet),
		joinSteps: []Step{
			{Name: "dismiss media prompt", Selector: "button[data-mdc-dialog-action='ok']", Action: ActionClick},
			{Name: "display name", Selector: "input[aria-label='Your name']", Action: ActionReplace, Value: ValueDisplayName},
			{Name: "join", Selector: "button[jsname='Qx7uuf']", Action: ActionClick, Required: true},
		},
	}
}
