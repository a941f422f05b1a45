package handlers

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/custodia-labs/autojoin/internal/core/domain"
	"github.com/custodia-labs/autojoin/internal/logger"
)

// reconcileState is a state of the account reconciliation machine.
type reconcileState int

const (
	stateProbe reconcileState = iota
	stateLogin
	stateMismatch
	stateSwitch
	stateDone
)

var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

// CheckSession probes the surface for the signed-in account.
// Missing session cookies or a missing logged-in indicator mean no account.
func (h *PlatformHandler) CheckSession(ctx context.Context) (string, error) {
	ctrl, err := h.controller(ctx)
	if err != nil {
		return "", err
	}

	if err := ctrl.Navigate(ctx, h.v.profileURL); err != nil {
		return "", fmt.Errorf("open profile page: %w", err)
	}

	if len(h.v.sessionCookies) > 0 {
		names, err := ctrl.CookieNames(ctx)
		if err != nil {
			return "", fmt.Errorf("read cookies: %w", err)
		}
		if !hasAny(names, h.v.sessionCookies) {
			h.account = ""
			return "", nil
		}
	}

	found, err := h.waitFor(ctx, ctrl, h.v.loggedInSelector)
	if err != nil {
		return "", err
	}
	if !found {
		h.account = ""
		return "", nil
	}

	account, err := h.readAccount(ctx)
	if err != nil {
		return "", err
	}
	h.account = account
	return account, nil
}

// readAccount extracts the signed-in email from the profile surface.
func (h *PlatformHandler) readAccount(ctx context.Context) (string, error) {
	var raw string
	var err error
	if h.v.accountAttribute != "" {
		raw, _, err = h.ctrl.Attribute(ctx, h.v.accountSelector, h.v.accountAttribute)
	} else {
		raw, err = h.ctrl.Text(ctx, h.v.accountSelector)
	}
	if err != nil {
		return "", fmt.Errorf("read account (%s): %w", h.v.accountSelector, err)
	}

	email := emailPattern.FindString(raw)
	if email == "" {
		return "", fmt.Errorf("account email (%s): %w", h.v.accountSelector, domain.ErrRemoteSurfaceTimeout)
	}
	return email, nil
}

// ReconcileAccount runs the reconciliation machine. With no required
// account it does nothing and never consults the decision maker.
//
//	probe -> done      (required account signed in)
//	probe -> login     (nobody signed in)
//	probe -> mismatch  (someone else signed in)
//	mismatch -> done   (keep)
//	mismatch -> switch (switch)
//	mismatch -> error  (abort)
//	switch -> login    (after logout)
//	login -> done
func (h *PlatformHandler) ReconcileAccount(ctx context.Context, req domain.JoinRequest) (string, error) {
	required := strings.TrimSpace(req.RequiredEmail)
	if required == "" {
		return "", nil
	}

	var (
		current string
		secrets []flowSecret
		err     error
	)
	state := stateProbe
	for state != stateDone {
		switch state {
		case stateProbe:
			current, err = h.CheckSession(ctx)
			if err != nil {
				return "", err
			}
			switch {
			case current == "":
				state = stateLogin
			case strings.EqualFold(current, required):
				state = stateDone
			default:
				state = stateMismatch
			}

		case stateMismatch:
			decision, err := h.decide(ctx, req, current)
			if err != nil {
				return "", err
			}
			h.log.Info("account mismatch resolved", "decision", decision.String())
			switch decision {
			case domain.DecisionKeep:
				state = stateDone
			case domain.DecisionSwitch:
				state = stateSwitch
			default:
				return "", fmt.Errorf("%w: signed in as %s, meeting requires %s",
					domain.ErrAccountMismatchAborted,
					logger.AnonymizeEmail(current), logger.AnonymizeEmail(required))
			}

		case stateSwitch:
			// Credentials are checked before logging out so a missing
			// secret leaves the current session intact.
			if secrets, err = h.secretsFor(required); err != nil {
				return "", err
			}
			if err := h.logout(ctx); err != nil {
				return "", err
			}
			state = stateLogin

		case stateLogin:
			if secrets == nil {
				if secrets, err = h.secretsFor(required); err != nil {
					return "", err
				}
			}
			if err := h.login(ctx, required, secrets); err != nil {
				return "", err
			}
			current = required
			state = stateDone
		}
	}

	h.account = current
	return current, nil
}

// decide asks the decision maker. A missing decision maker aborts.
func (h *PlatformHandler) decide(ctx context.Context, req domain.JoinRequest, current string) (domain.Decision, error) {
	if h.deps.Decisions == nil {
		h.log.Warn("account mismatch with no decision maker, aborting")
		return domain.DecisionAbort, nil
	}

	decision, err := h.deps.Decisions.Decide(ctx, domain.DecisionRequest{
		Platform:        h.v.platform,
		MeetingTitle:    req.Title,
		CurrentAccount:  current,
		RequiredAccount: req.RequiredEmail,
	})
	if err != nil {
		return "", fmt.Errorf("account mismatch decision: %w", err)
	}
	return decision, nil
}

// flowSecret pairs a login flow with its stored secret.
type flowSecret struct {
	flow   loginFlow
	secret string
}

// secretsFor returns the login flows that have a stored secret for email.
func (h *PlatformHandler) secretsFor(email string) ([]flowSecret, error) {
	if h.deps.Credentials == nil {
		return nil, fmt.Errorf("%w: no credential store", domain.ErrCredentialMissing)
	}

	var out []flowSecret
	for _, flow := range h.v.logins {
		secret, err := h.deps.Credentials.Get(flow.service, email)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			continue
		case err != nil:
			return nil, fmt.Errorf("read credential %s: %w", flow.service, err)
		case secret == "":
			continue
		}
		out = append(out, flowSecret{flow: flow, secret: secret})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s on %s", domain.ErrCredentialMissing,
			logger.AnonymizeEmail(email), h.v.platform.DisplayName())
	}
	return out, nil
}

// login tries each flow in order until the logged-in indicator appears.
func (h *PlatformHandler) login(ctx context.Context, email string, secrets []flowSecret) error {
	var lastErr error
	for _, fs := range secrets {
		err := h.loginWith(ctx, fs.flow, email, fs.secret)
		if err == nil {
			h.log.Info("signed in", "flow", fs.flow.name, logger.Account(email))
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		h.log.Warn("sign-in flow failed", "flow", fs.flow.name, logger.Err(err))
		lastErr = err
	}
	return lastErr
}

// loginWith drives one flow and verifies the result.
func (h *PlatformHandler) loginWith(ctx context.Context, flow loginFlow, email, secret string) error {
	ctrl, err := h.controller(ctx)
	if err != nil {
		return err
	}

	if err := ctrl.Navigate(ctx, flow.url); err != nil {
		return fmt.Errorf("%w: %s: open sign-in page: %w", domain.ErrLoginFailed, flow.name, err)
	}
	vals := values{ValueEmail: email, ValueSecret: secret}
	if err := h.runSteps(ctx, ctrl, flow.steps, vals); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrLoginFailed, flow.name, err)
	}

	if err := ctrl.Navigate(ctx, h.v.profileURL); err != nil {
		return fmt.Errorf("%w: %s: open profile page: %w", domain.ErrLoginFailed, flow.name, err)
	}
	found, err := h.waitFor(ctx, ctrl, h.v.loggedInSelector)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %s: not signed in after flow", domain.ErrLoginFailed, flow.name)
	}
	return nil
}

// logout signs the current account out and clears cookies.
func (h *PlatformHandler) logout(ctx context.Context) error {
	ctrl, err := h.controller(ctx)
	if err != nil {
		return err
	}

	if err := ctrl.Navigate(ctx, h.v.logoutURL); err != nil {
		return fmt.Errorf("open sign-out page: %w", err)
	}
	if err := h.runSteps(ctx, ctrl, h.v.logoutSteps, nil); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	if err := ctrl.ClearCookies(ctx); err != nil {
		return fmt.Errorf("clear cookies: %w", err)
	}
	h.account = ""
	return nil
}

func hasAny(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}
