package driven

import (
	"context"

	"github.com/custodia-labs/autojoin/internal/core/domain"
)

// JoinHistoryStore records the outcome of every join attempt.
type JoinHistoryStore interface {
	// RecordAttempt stores one attempt. An empty AttemptID is assigned
	// by the store and written back to result.
	RecordAttempt(ctx context.Context, result *domain.JoinResult) error

	// ListAttempts returns attempts newest first. An empty meetingID
	// lists all meetings. A limit <= 0 means no limit.
	ListAttempts(ctx context.Context, meetingID string, limit int) ([]domain.JoinResult, error)

	// PruneHistory keeps only the newest keep attempts per meeting.
	PruneHistory(ctx context.Context, keep int) error
}
