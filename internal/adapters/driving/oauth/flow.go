package oauth

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/autojoin/internal/logger"
)

// Callback port range tried before falling back to any free port.
const (
	PortRangeStart = 18080
	PortRangeEnd   = 18099
)

// Flow performs the authorisation code flow with PKCE against a loopback
// redirect.
type Flow struct {
	// Open is called with the consent URL. Defaults to OpenBrowser.
	Open func(url string) error

	// Notify is told the URL so the user can open it by hand.
	Notify func(url string)
}

// Authorise runs the flow for cfg and returns the exchanged token.
// cfg.RedirectURL is overwritten with the callback server's address.
func (f *Flow) Authorise(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	log := logger.Component("oauth")

	port, err := FindAvailablePort(PortRangeStart, PortRangeEnd)
	if err != nil {
		port = 0
	}

	state := oauth2.GenerateVerifier()
	server := NewCallbackServer(port, state)
	if err := server.Start(); err != nil {
		return nil, err
	}
	defer server.Stop()

	cfg.RedirectURL = server.RedirectURI()
	verifier := oauth2.GenerateVerifier()
	url := cfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce,
		oauth2.S256ChallengeOption(verifier))

	if f.Notify != nil {
		f.Notify(url)
	}
	open := f.Open
	if open == nil {
		open = OpenBrowser
	}
	if err := open(url); err != nil {
		log.Warn("could not open browser", logger.Err(err))
	}

	code, err := server.WaitForCode(ctx)
	if err != nil {
		return nil, err
	}

	tok, err := cfg.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("exchange authorisation code: %w", err)
	}
	log.Info("authorisation complete", slog.Int("port", server.Port()))
	return tok, nil
}
