package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/autojoin/internal/core/domain"
	"github.com/custodia-labs/autojoin/internal/core/ports/driven"
)

// Ensure SnapshotStore implements the interface.
var _ driven.MeetingSnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore is an in-memory driven.MeetingSnapshotStore.
type SnapshotStore struct {
	mu          sync.RWMutex
	meetings    []domain.Meeting
	skipped     []domain.SkippedRecord
	saves       int
	quarantined int

	// LoadErr and SaveErr, when set, are returned by Load and Save.
	LoadErr error
	SaveErr error
}

// NewSnapshotStore creates a store preloaded with meetings.
func NewSnapshotStore(meetings ...domain.Meeting) *SnapshotStore {
	return &SnapshotStore{meetings: append([]domain.Meeting(nil), meetings...)}
}

// Load returns the stored meetings.
func (s *SnapshotStore) Load(_ context.Context) (domain.SnapshotLoad, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.LoadErr != nil {
		return domain.SnapshotLoad{}, s.LoadErr
	}
	return domain.SnapshotLoad{
		Meetings: append([]domain.Meeting(nil), s.meetings...),
		Skipped:  append([]domain.SkippedRecord(nil), s.skipped...),
	}, nil
}

// Save replaces the stored meetings.
func (s *SnapshotStore) Save(_ context.Context, meetings []domain.Meeting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.meetings = append([]domain.Meeting(nil), meetings...)
	s.skipped = nil
	s.saves++
	return nil
}

// Path returns the snapshot location.
func (s *SnapshotStore) Path() string {
	return ":memory:"
}

// Quarantine counts the call and clears LoadErr, as if the unreadable
// snapshot had been moved away.
func (s *SnapshotStore) Quarantine(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quarantined++
	s.LoadErr = nil
	return ":memory:.corrupt", nil
}

// Quarantined returns how many times Quarantine was called.
func (s *SnapshotStore) Quarantined() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.quarantined
}

// SetSkipped makes the next Load report skipped records.
func (s *SnapshotStore) SetSkipped(records ...domain.SkippedRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skipped = records
}

// Saves returns how many snapshots have been written.
func (s *SnapshotStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

// Meetings returns the last saved meetings.
func (s *SnapshotStore) Meetings() []domain.Meeting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Meeting(nil), s.meetings...)
}
