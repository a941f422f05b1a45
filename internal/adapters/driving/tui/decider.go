package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/custodia-labs/autojoin/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/autojoin/internal/core/domain"
	"github.com/custodia-labs/autojoin/internal/core/ports/driven"
	"github.com/custodia-labs/autojoin/internal/logger"
)

// Ensure Decider implements the interface.
var _ driven.DecisionMaker = (*Decider)(nil)

// promptFunc shows the prompt and returns the choice.
type promptFunc func(ctx context.Context, req domain.DecisionRequest) (domain.Decision, error)

// Decider answers mismatch decisions. Fixed policies answer immediately.
// PolicyPrompt asks at the terminal when one is attached and aborts when
// none is. Prompts are shown one at a time.
type Decider struct {
	policy      domain.MismatchPolicy
	interactive bool
	prompt      promptFunc
	log         *slog.Logger

	mu sync.Mutex
}

// NewDecider creates a decider reading from stdin and drawing on stderr.
func NewDecider(policy domain.MismatchPolicy) *Decider {
	d := &Decider{
		policy:      policy,
		interactive: term.IsTerminal(int(os.Stdin.Fd())),
		log:         logger.Component("decision"),
	}
	d.prompt = terminalPrompt(os.Stdin, os.Stderr, styles.DefaultStyles())
	return d
}

// Interactive reports whether prompts can be shown.
func (d *Decider) Interactive() bool {
	return d.interactive
}

// Decide implements driven.DecisionMaker.
func (d *Decider) Decide(ctx context.Context, req domain.DecisionRequest) (domain.Decision, error) {
	if d.policy != domain.PolicyPrompt {
		decision := d.policy.Decision()
		d.log.Info("account mismatch resolved by policy",
			slog.String("policy", string(d.policy)),
			slog.String("decision", decision.String()))
		return decision, nil
	}
	if !d.interactive {
		d.log.Warn("account mismatch with no terminal to ask; aborting",
			logger.Platform(req.Platform.String()))
		return domain.DecisionAbort, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return domain.DecisionAbort, err
	}
	return d.prompt(ctx, req)
}

func terminalPrompt(in io.Reader, out io.Writer, s *styles.Styles) promptFunc {
	return func(ctx context.Context, req domain.DecisionRequest) (domain.Decision, error) {
		model := newPromptModel(req, s)
		p := tea.NewProgram(model,
			tea.WithContext(ctx),
			tea.WithInput(in),
			tea.WithOutput(out))

		if _, err := p.Run(); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return domain.DecisionAbort, ctxErr
			}
			if errors.Is(err, tea.ErrProgramKilled) {
				return domain.DecisionAbort, nil
			}
			return domain.DecisionAbort, err
		}
		if model.chosen == "" {
			return domain.DecisionAbort, nil
		}
		return model.chosen, nil
	}
}
