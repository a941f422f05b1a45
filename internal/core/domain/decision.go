package domain

import (
	"fmt"
	"strings"
)

// Decision is the resolution of an account mismatch.
type Decision string

// Legal mismatch decisions.
const (
	// DecisionSwitch logs out and logs in with the required account.
	DecisionSwitch Decision = "switch"

	// DecisionKeep proceeds with the signed-in, non-matching account.
	DecisionKeep Decision = "keep"

	// DecisionAbort fails the join attempt.
	DecisionAbort Decision = "abort"
)

// ParseDecision converts a string to a Decision.
func ParseDecision(s string) (Decision, error) {
	switch d := Decision(strings.ToLower(strings.TrimSpace(s))); d {
	case DecisionSwitch, DecisionKeep, DecisionAbort:
		return d, nil
	default:
		return "", fmt.Errorf("%w: unknown decision %q", ErrInvalidInput, s)
	}
}

// String returns the string representation.
func (d Decision) String() string {
	return string(d)
}

// DecisionRequest is presented to the decision maker on an account mismatch.
type DecisionRequest struct {
	Platform        Platform
	MeetingTitle    string
	CurrentAccount  string
	RequiredAccount string
}

// MismatchPolicy selects how mismatches are resolved when no one is asked.
type MismatchPolicy string

// Mismatch policies. PolicyPrompt asks interactively when a terminal is attached.
const (
	PolicyPrompt MismatchPolicy = "prompt"
	PolicySwitch MismatchPolicy = "switch"
	PolicyKeep   MismatchPolicy = "keep"
	PolicyAbort  MismatchPolicy = "abort"
)

// IsValid returns true if the policy is recognised.
func (p MismatchPolicy) IsValid() bool {
	switch p {
	case PolicyPrompt, PolicySwitch, PolicyKeep, PolicyAbort:
		return true
	default:
		return false
	}
}

// Decision returns the fixed decision for non-prompt policies.
// PolicyPrompt falls back to DecisionAbort.
func (p MismatchPolicy) Decision() Decision {
	switch p {
	case PolicySwitch:
		return DecisionSwitch
	case PolicyKeep:
		return DecisionKeep
	default:
		return DecisionAbort
	}
}
