package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/autojoin/internal/core/domain"
	"github.com/custodia-labs/autojoin/internal/core/ports/driven"
)

// historyStore implements driven.JoinHistoryStore.
type historyStore struct {
	store *Store
}

var _ driven.JoinHistoryStore = (*historyStore)(nil)

// RecordAttempt stores one attempt. An empty AttemptID is filled with a
// fresh UUID.
func (s *historyStore) RecordAttempt(ctx context.Context, result *domain.JoinResult) error {
	if result == nil {
		return domain.ErrInvalidInput
	}
	if result.AttemptID == "" {
		result.AttemptID = uuid.NewString()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO join_attempts
			(id, meeting_id, title, platform, path, account, started_at, ended_at, success, reason, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, result.AttemptID, result.MeetingID, result.Title, string(result.Platform),
		string(result.Path), nullString(result.Account),
		result.StartedAt.UnixNano(), nullableNanos(result.EndedAt),
		boolToInt(result.Success), string(result.Reason), nullString(result.Error))
	if err != nil {
		return fmt.Errorf("recording join attempt: %w", err)
	}
	return nil
}

// ListAttempts returns attempts newest first. An empty meetingID lists
// every meeting; a limit of zero or less means no limit.
func (s *historyStore) ListAttempts(ctx context.Context, meetingID string, limit int) ([]domain.JoinResult, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, meeting_id, title, platform, path, account, started_at, ended_at, success, reason, error
		FROM join_attempts
		WHERE ? = '' OR meeting_id = ?
		ORDER BY started_at DESC, id
		LIMIT ?
	`, meetingID, meetingID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying join history: %w", err)
	}
	defer rows.Close()

	var results []domain.JoinResult //nolint:prealloc // size unknown from query
	for rows.Next() {
		result, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating join history: %w", err)
	}

	return results, nil
}

// PruneHistory keeps the most recent keep attempts per meeting.
func (s *historyStore) PruneHistory(ctx context.Context, keep int) error {
	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM join_attempts
		WHERE id NOT IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (PARTITION BY meeting_id ORDER BY started_at DESC) as rn
				FROM join_attempts
			) WHERE rn <= ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("pruning join history: %w", err)
	}
	return nil
}

// scanAttempt scans a join attempt from *sql.Rows.
func scanAttempt(rows *sql.Rows) (*domain.JoinResult, error) {
	var result domain.JoinResult
	var platform, path, reason string
	var account, errMsg sql.NullString
	var startedAt int64
	var endedAt sql.NullInt64
	var success int

	if err := rows.Scan(&result.AttemptID, &result.MeetingID, &result.Title, &platform, &path,
		&account, &startedAt, &endedAt, &success, &reason, &errMsg); err != nil {
		return nil, fmt.Errorf("scanning join attempt: %w", err)
	}

	result.Platform = domain.Platform(platform)
	result.Path = domain.JoinPath(path)
	result.Account = account.String
	result.StartedAt = time.Unix(0, startedAt)
	if endedAt.Valid {
		result.EndedAt = time.Unix(0, endedAt.Int64)
	}
	result.Success = success == 1
	result.Reason = domain.FailureReason(reason)
	result.Error = errMsg.String

	return &result, nil
}

// nullableNanos returns nil for the zero time, otherwise Unix nanoseconds.
func nullableNanos(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UnixNano()
}

// nullString returns nil for empty strings, otherwise the string.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// boolToInt converts a bool to 1 (true) or 0 (false).
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
