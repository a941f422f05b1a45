package driving

import (
	"context"

	"github.com/custodia-labs/autojoin/internal/core/domain"
)

// Joiner runs join attempts.
type Joiner interface {
	// Join runs exactly one attempt for the meeting. The attempt is reported
	// once and never retried. The result is never nil.
	Join(ctx context.Context, meeting domain.Meeting) *domain.JoinResult

	// History returns recorded attempts newest first.
	History(ctx context.Context, meetingID string, limit int) ([]domain.JoinResult, error)
}
