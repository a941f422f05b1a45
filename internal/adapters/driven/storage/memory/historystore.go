package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/custodia-labs/autojoin/internal/core/domain"
	"github.com/custodia-labs/autojoin/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.JoinHistoryStore = (*HistoryStore)(nil)

// HistoryStore is an in-memory driven.JoinHistoryStore.
type HistoryStore struct {
	mu       sync.RWMutex
	attempts []domain.JoinResult
	nextID   int
}

// NewHistoryStore creates a new in-memory history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{}
}

// RecordAttempt stores an attempt, assigning a sequential id when empty.
func (s *HistoryStore) RecordAttempt(_ context.Context, result *domain.JoinResult) error {
	if result == nil {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if result.AttemptID == "" {
		s.nextID++
		result.AttemptID = "attempt-" + strconv.Itoa(s.nextID)
	}
	s.attempts = append(s.attempts, *result)
	return nil
}

// ListAttempts returns attempts newest first.
func (s *HistoryStore) ListAttempts(_ context.Context, meetingID string, limit int) ([]domain.JoinResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.JoinResult
	for i := len(s.attempts) - 1; i >= 0; i-- {
		a := s.attempts[i]
		if meetingID != "" && a.MeetingID != meetingID {
			continue
		}
		out = append(out, a)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	return out, nil
}

// PruneHistory keeps the newest keep attempts per meeting.
func (s *HistoryStore) PruneHistory(_ context.Context, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int)
	kept := make([]domain.JoinResult, 0, len(s.attempts))
	for i := len(s.attempts) - 1; i >= 0; i-- {
		a := s.attempts[i]
		counts[a.MeetingID]++
		if counts[a.MeetingID] <= keep {
			kept = append(kept, a)
		}
	}
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	s.attempts = kept
	return nil
}
