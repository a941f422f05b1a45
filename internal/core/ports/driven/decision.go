package driven

import (
	"context"

	"github.com/custodia-labs/autojoin/internal/core/domain"
)

// DecisionMaker resolves an account mismatch. Decide blocks the calling
// attempt until a decision is available or ctx is done.
type DecisionMaker interface {
	Decide(ctx context.Context, req domain.DecisionRequest) (domain.Decision, error)
}
