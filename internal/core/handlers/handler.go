package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/custodia-labs/autojoin/internal/core/domain"
	"github.com/custodia-labs/autojoin/internal/core/ports/driven"
	"github.com/custodia-labs/autojoin/internal/logger"
)

// DefaultPollInterval is how often a waiting step probes the surface.
const DefaultPollInterval = 250 * time.Millisecond

// Handler joins meetings on one platform.
type Handler interface {
	// Platform returns the platform served.
	Platform() domain.Platform

	// CheckSession returns the account signed in on the browser surface,
	// or "" when no account is signed in.
	CheckSession(ctx context.Context) (string, error)

	// ReconcileAccount makes sure the required account, or an account the
	// decision maker accepted, is signed in. It returns the account used.
	ReconcileAccount(ctx context.Context, req domain.JoinRequest) (string, error)

	// Join runs one complete attempt.
	Join(ctx context.Context, req domain.JoinRequest) (Outcome, error)

	// Close releases the browser surface, if any.
	Close() error
}

// Outcome describes how an attempt ended.
type Outcome struct {
	Path    domain.JoinPath
	Account string
}

// Options tune every handler.
type Options struct {
	// ForceBrowser skips native apps.
	ForceBrowser bool

	// DisplayName is typed into name prompts.
	DisplayName string

	// StepTimeout bounds each wait for an element.
	StepTimeout time.Duration

	// PollInterval is how often a wait probes the surface.
	PollInterval time.Duration
}

// Deps are the collaborators a handler drives.
type Deps struct {
	Controllers driven.RemoteControllerFactory
	Credentials driven.CredentialStore
	Decisions   driven.DecisionMaker
	Probe       driven.AppProbe
	Launcher    driven.AppLauncher
	Options     Options
}

// Ensure PlatformHandler implements the interface.
var _ Handler = (*PlatformHandler)(nil)

// PlatformHandler is the shared join engine parameterised by a platform
// variant. One handler serves one attempt; its controller is never shared.
type PlatformHandler struct {
	v     *variant
	deps  Deps
	opts  Options
	log   *slog.Logger
	sleep func(ctx context.Context, d time.Duration) error

	// Session state for the current attempt.
	ctrl         driven.RemoteController
	account      string
	mediaGranted bool
}

// New creates the handler for a platform.
func New(platform domain.Platform, deps Deps) (*PlatformHandler, error) {
	v, err := variantFor(platform)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, platform)
	}

	opts := deps.Options
	if opts.StepTimeout <= 0 {
		opts.StepTimeout = domain.DefaultStepTimeout
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.DisplayName == "" {
		opts.DisplayName = domain.DefaultDisplayName
	}

	return &PlatformHandler{
		v:     v,
		deps:  deps,
		opts:  opts,
		log:   logger.Component("handler").With(logger.Platform(platform.String())),
		sleep: sleepContext,
	}, nil
}

// Platform returns the platform served.
func (h *PlatformHandler) Platform() domain.Platform {
	return h.v.platform
}

// Join routes the attempt to the native app or the browser. A failed app
// launch falls back to the browser. The browser surface is released on
// every exit path; on success it is detached so the meeting stays open.
func (h *PlatformHandler) Join(ctx context.Context, req domain.JoinRequest) (Outcome, error) {
	if _, err := h.v.joinURL(req); err != nil {
		return Outcome{}, err
	}

	if h.useApp() {
		out, err := h.joinApp(ctx, req)
		if err == nil || !errors.Is(err, domain.ErrAppLaunch) {
			return out, err
		}
		h.log.Warn("app launch failed, using browser", logger.Err(err))
	}

	defer h.release()

	out, err := h.joinBrowser(ctx, req)
	if err != nil {
		return out, err
	}
	if derr := h.ctrl.Detach(); derr != nil {
		h.log.Warn("failed to detach browser", logger.Err(derr))
	}
	return out, nil
}

// Close releases the browser surface, if any.
func (h *PlatformHandler) Close() error {
	return h.release()
}

// useApp reports whether the native app path should be tried.
func (h *PlatformHandler) useApp() bool {
	return h.v.appArgs != nil &&
		!h.opts.ForceBrowser &&
		h.deps.Probe != nil &&
		h.deps.Launcher != nil &&
		h.deps.Probe.IsInstalled(h.v.platform)
}

// joinApp spawns the native app. No account reconciliation happens here;
// the app uses whatever account it is signed in with.
func (h *PlatformHandler) joinApp(ctx context.Context, req domain.JoinRequest) (Outcome, error) {
	out := Outcome{Path: domain.JoinPathApp}

	path := h.deps.Probe.AppPath(h.v.platform)
	if path == "" {
		return out, fmt.Errorf("%w: no path for %s", domain.ErrAppLaunch, h.v.platform)
	}

	args := h.v.appArgs(req)
	h.log.Debug("launching app", slog.String("path", path))
	if err := h.deps.Launcher.Launch(ctx, path, args); err != nil {
		if errors.Is(err, domain.ErrAppLaunch) {
			return out, err
		}
		return out, fmt.Errorf("%w: %w", domain.ErrAppLaunch, err)
	}
	return out, nil
}

// joinBrowser reconciles the account and drives the join steps.
func (h *PlatformHandler) joinBrowser(ctx context.Context, req domain.JoinRequest) (Outcome, error) {
	out := Outcome{Path: domain.JoinPathBrowser}

	ctrl, err := h.controller(ctx)
	if err != nil {
		return out, err
	}

	account, err := h.ReconcileAccount(ctx, req)
	if err != nil {
		return out, err
	}
	out.Account = account

	target, err := h.v.joinURL(req)
	if err != nil {
		return out, err
	}
	if err := ctrl.Navigate(ctx, target); err != nil {
		return out, fmt.Errorf("open meeting page: %w", err)
	}

	vals := values{
		ValueDisplayName: h.opts.DisplayName,
		ValuePassword:    req.Password,
	}
	if err := h.runSteps(ctx, ctrl, h.v.joinSteps, vals); err != nil {
		return out, err
	}
	return out, nil
}

// controller returns the attempt's controller, creating it on first use.
// Media permissions are granted once per handler.
func (h *PlatformHandler) controller(ctx context.Context) (driven.RemoteController, error) {
	if h.ctrl != nil {
		return h.ctrl, nil
	}
	if h.deps.Controllers == nil {
		return nil, errors.New("no browser controller configured")
	}

	ctrl, err := h.deps.Controllers.NewController(ctx)
	if err != nil {
		return nil, fmt.Errorf("start browser: %w", err)
	}
	h.ctrl = ctrl

	if h.v.mediaOrigin != "" && !h.mediaGranted {
		if err := ctrl.GrantMediaPermissions(ctx, h.v.mediaOrigin); err != nil {
			h.log.Warn("failed to pre-grant media permissions", logger.Err(err))
		} else {
			h.mediaGranted = true
		}
	}
	return ctrl, nil
}

// release tears the controller down and forgets the session.
func (h *PlatformHandler) release() error {
	if h.ctrl == nil {
		return nil
	}
	err := h.ctrl.Close()
	h.ctrl = nil
	h.account = ""
	return err
}
