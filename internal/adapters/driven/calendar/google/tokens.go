package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
	gcal "google.golang.org/api/calendar/v3"

	"github.com/custodia-labs/autojoin/internal/core/domain"
	"github.com/custodia-labs/autojoin/internal/core/ports/driven"
)

// TokenService is the credential store service holding calendar tokens.
const TokenService = domain.CredentialServicePrefix + "google_calendar"

// OAuthConfig returns the OAuth client configuration for calendar import.
func OAuthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     endpoints.Google,
		RedirectURL:  redirectURL,
		Scopes:       []string{gcal.CalendarReadonlyScope},
	}
}

// TokenStore keeps OAuth tokens in the credential store.
type TokenStore struct {
	store driven.CredentialStore
}

// NewTokenStore creates a token store.
func NewTokenStore(store driven.CredentialStore) *TokenStore {
	return &TokenStore{store: store}
}

// Load returns the token for clientID, or ErrNotAuthorised.
func (s *TokenStore) Load(clientID string) (*oauth2.Token, error) {
	raw, err := s.store.Get(TokenService, clientID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrNotAuthorised
	}
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal([]byte(raw), &tok); err != nil {
		return nil, fmt.Errorf("decode stored token: %w", err)
	}
	return &tok, nil
}

// Save stores the token for clientID.
func (s *TokenStore) Save(clientID string, tok *oauth2.Token) error {
	raw, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	return s.store.Set(TokenService, clientID, string(raw))
}

// Delete forgets the token for clientID.
func (s *TokenStore) Delete(clientID string) error {
	err := s.store.Delete(TokenService, clientID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

// TokenSource returns a refreshing token source that writes refreshed
// tokens back to the store.
func (s *TokenStore) TokenSource(ctx context.Context, cfg *oauth2.Config) (oauth2.TokenSource, error) {
	tok, err := s.Load(cfg.ClientID)
	if err != nil {
		return nil, err
	}
	return &persistingSource{
		base:     cfg.TokenSource(ctx, tok),
		store:    s,
		clientID: cfg.ClientID,
		last:     tok.AccessToken,
	}, nil
}

// persistingSource saves every newly minted token.
type persistingSource struct {
	base     oauth2.TokenSource
	store    *TokenStore
	clientID string

	mu   sync.Mutex
	last string
}

func (p *persistingSource) Token() (*oauth2.Token, error) {
	tok, err := p.base.Token()
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if tok.AccessToken != p.last {
		if err := p.store.Save(p.clientID, tok); err != nil {
			return nil, fmt.Errorf("store refreshed token: %w", err)
		}
		p.last = tok.AccessToken
	}
	return tok, nil
}
