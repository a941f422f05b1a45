package handlers

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/autojoin/internal/core/domain"
	"github.com/custodia-labs/autojoin/internal/core/ports/driven"
)

// Action is what a step does to its element once it appears.
type Action int

// Step actions.
const (
	// ActionWait only waits for the element.
	ActionWait Action = iota

	// ActionClick clicks the element.
	ActionClick

	// ActionType types the step value into the element.
	ActionType

	// ActionReplace clears the element, then types the step value.
	ActionReplace
)

// ValueKey names the value a typing step enters.
type ValueKey int

// Step values.
const (
	ValueNone ValueKey = iota
	ValueEmail
	ValueSecret
	ValueDisplayName
	ValuePassword
)

// Step is one interaction with the remote surface.
//
// A step whose element never appears within the step timeout is skipped
// when optional and fails the flow with domain.ErrRemoteSurfaceTimeout
// when required. A typing step whose value is empty is skipped.
type Step struct {
	Name     string
	Selector string
	Action   Action
	Value    ValueKey
	Required bool

	// Settle pauses after the action so the surface can react.
	Settle time.Duration
}

// values supplies step values for one flow.
type values map[ValueKey]string

// runSteps executes steps in order against ctrl.
func (h *PlatformHandler) runSteps(ctx context.Context, ctrl driven.RemoteController, steps []Step, vals values) error {
	for _, st := range steps {
		text := vals[st.Value]
		if (st.Action == ActionType || st.Action == ActionReplace) && text == "" {
			h.log.Debug("step skipped, no value", "step", st.Name)
			continue
		}

		found, err := h.waitFor(ctx, ctrl, st.Selector)
		if err != nil {
			return fmt.Errorf("%s: %w", st.Name, err)
		}
		if !found {
			if st.Required {
				return fmt.Errorf("%s (%s): %w", st.Name, st.Selector, domain.ErrRemoteSurfaceTimeout)
			}
			h.log.Debug("optional step not present", "step", st.Name)
			continue
		}

		if err := h.act(ctx, ctrl, st, text); err != nil {
			if st.Required {
				return fmt.Errorf("%s: %w", st.Name, err)
			}
			h.log.Debug("optional step failed", "step", st.Name, "error", err)
			continue
		}

		if st.Settle > 0 {
			if err := h.sleep(ctx, st.Settle); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *PlatformHandler) act(ctx context.Context, ctrl driven.RemoteController, st Step, text string) error {
	switch st.Action {
	case ActionClick:
		return ctrl.Click(ctx, st.Selector)
	case ActionType:
		return ctrl.SendKeys(ctx, st.Selector, text)
	case ActionReplace:
		if err := ctrl.Clear(ctx, st.Selector); err != nil {
			return err
		}
		return ctrl.SendKeys(ctx, st.Selector, text)
	default:
		return nil
	}
}

// waitFor polls the surface until selector is present, the step timeout
// elapses (not found), or ctx is done (error). Probe errors are treated as
// "not yet" since the surface may be mid-navigation.
func (h *PlatformHandler) waitFor(ctx context.Context, ctrl driven.RemoteController, selector string) (bool, error) {
	waitCtx, cancel := context.WithTimeout(ctx, h.opts.StepTimeout)
	defer cancel()

	limiter := rate.NewLimiter(rate.Every(h.opts.PollInterval), 1)
	for {
		if err := limiter.Wait(waitCtx); err != nil {
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			return false, nil
		}

		ok, err := ctrl.Exists(waitCtx, selector)
		if err == nil && ok {
			return true, nil
		}
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
	}
}

// sleepContext pauses for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
