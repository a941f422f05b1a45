package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/autojoin/internal/core/domain"
	"github.com/custodia-labs/autojoin/internal/core/ports/driven"
	"github.com/custodia-labs/autojoin/internal/core/ports/driving"
	"github.com/custodia-labs/autojoin/internal/logger"
)

// Ensure MeetingService implements the interface.
var _ driving.MeetingService = (*MeetingService)(nil)

// MeetingService is the in-memory meeting registry with snapshot persistence.
// Writers are serialised; the snapshot is written while the write lock is
// held so snapshots land in registration order.
type MeetingService struct {
	store     driven.MeetingSnapshotStore
	scheduler driving.Scheduler
	log       *slog.Logger
	now       func() time.Time

	mu       sync.RWMutex
	meetings map[string]domain.Meeting
}

// NewMeetingService creates a meeting service. The scheduler may be nil
// for one-shot commands that never fire triggers.
func NewMeetingService(store driven.MeetingSnapshotStore, scheduler driving.Scheduler) *MeetingService {
	return &MeetingService{
		store:     store,
		scheduler: scheduler,
		log:       logger.Component("meetings"),
		now:       time.Now,
		meetings:  make(map[string]domain.Meeting),
	}
}

// Add registers a meeting, persists the snapshot, then schedules it.
func (s *MeetingService) Add(ctx context.Context, meeting domain.Meeting) (bool, error) {
	if err := meeting.Validate(); err != nil {
		return false, err
	}

	s.mu.Lock()
	if _, exists := s.meetings[meeting.ID]; exists {
		s.mu.Unlock()
		return false, nil
	}
	s.meetings[meeting.ID] = meeting
	saveErr := s.saveLocked(ctx)
	s.mu.Unlock()

	s.schedule(meeting)
	return true, saveErr
}

// Remove unregisters a meeting and persists the snapshot.
func (s *MeetingService) Remove(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	if _, exists := s.meetings[id]; !exists {
		s.mu.Unlock()
		return false, nil
	}
	delete(s.meetings, id)
	saveErr := s.saveLocked(ctx)
	s.mu.Unlock()

	if s.scheduler != nil {
		s.scheduler.Unschedule(id)
	}
	return true, saveErr
}

// Get returns a meeting by id.
func (s *MeetingService) Get(_ context.Context, id string) (domain.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.meetings[id]
	if !ok {
		return domain.Meeting{}, fmt.Errorf("meeting %q: %w", id, domain.ErrNotFound)
	}
	return m, nil
}

// List returns all meetings ordered by start time.
func (s *MeetingService) List(_ context.Context) []domain.Meeting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked()
}

// Load replaces the registry with the persisted snapshot. A snapshot that
// cannot be read leaves the registry empty and returns the error.
func (s *MeetingService) Load(ctx context.Context) (domain.SnapshotLoad, error) {
	loaded, err := s.store.Load(ctx)

	s.mu.Lock()
	s.meetings = make(map[string]domain.Meeting)
	if err != nil {
		s.mu.Unlock()
		s.log.Error("snapshot unreadable, starting empty", slog.String("path", s.store.Path()), logger.Err(err))
		if errors.Is(err, domain.ErrPersistence) {
			s.quarantine(ctx)
		}
		return domain.SnapshotLoad{}, err
	}

	valid, skipped := s.acceptLoaded(loaded)
	for _, m := range valid {
		s.meetings[m.ID] = m
	}
	s.mu.Unlock()

	for _, rec := range skipped {
		s.log.Warn("skipped snapshot record", logger.Meeting(rec.ID), slog.String("error", rec.Error))
	}
	for _, m := range valid {
		s.schedule(m)
	}

	return domain.SnapshotLoad{Meetings: valid, Skipped: skipped}, nil
}

// quarantine keeps an unreadable snapshot from being overwritten by the
// next mutation.
func (s *MeetingService) quarantine(ctx context.Context) {
	moved, err := s.store.Quarantine(ctx)
	switch {
	case err != nil:
		s.log.Error("could not move unreadable snapshot aside", slog.String("path", s.store.Path()), logger.Err(err))
	case moved != "":
		s.log.Warn("unreadable snapshot moved aside", slog.String("path", moved))
	}
}

// Reload merges the persisted snapshot into the registry. It is used when
// another process edits the snapshot while the scheduler runs.
func (s *MeetingService) Reload(ctx context.Context) error {
	loaded, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	valid, _ := s.acceptLoaded(loaded)

	next := make(map[string]domain.Meeting, len(valid))
	for _, m := range valid {
		next[m.ID] = m
	}

	s.mu.Lock()
	var removed []string
	for id := range s.meetings {
		if _, ok := next[id]; !ok {
			removed = append(removed, id)
		}
	}
	var changed []domain.Meeting
	for id, m := range next {
		if old, ok := s.meetings[id]; !ok || !old.Equal(&m) {
			changed = append(changed, m)
		}
	}
	s.meetings = next
	s.mu.Unlock()

	if s.scheduler != nil {
		for _, id := range removed {
			s.scheduler.Unschedule(id)
		}
	}
	for _, m := range changed {
		s.schedule(m)
	}

	if len(removed) > 0 || len(changed) > 0 {
		s.log.Info("snapshot reloaded", slog.Int("changed", len(changed)), slog.Int("removed", len(removed)))
	}
	return nil
}

// Import registers the candidates produced by importer through Add.
// A persistence failure stops the import.
func (s *MeetingService) Import(ctx context.Context, importer driven.CalendarImporter) (domain.ImportReport, error) {
	report := domain.ImportReport{Source: importer.Name()}

	candidates, err := importer.Import(ctx)
	if err != nil {
		return report, fmt.Errorf("import from %s: %w", importer.Name(), err)
	}

	for _, m := range candidates {
		added, err := s.Add(ctx, m)
		switch {
		case errors.Is(err, domain.ErrValidation):
			report.Rejected = append(report.Rejected, domain.SkippedRecord{ID: m.ID, Error: err.Error()})
		case err != nil:
			if added {
				report.Added = append(report.Added, m.ID)
			}
			return report, err
		case added:
			report.Added = append(report.Added, m.ID)
		default:
			report.Duplicates++
		}
	}
	return report, nil
}

// acceptLoaded drops loaded meetings that fail validation.
func (s *MeetingService) acceptLoaded(loaded domain.SnapshotLoad) ([]domain.Meeting, []domain.SkippedRecord) {
	skipped := append([]domain.SkippedRecord(nil), loaded.Skipped...)
	valid := make([]domain.Meeting, 0, len(loaded.Meetings))
	for _, m := range loaded.Meetings {
		if err := m.Validate(); err != nil {
			skipped = append(skipped, domain.SkippedRecord{ID: m.ID, Error: err.Error()})
			continue
		}
		valid = append(valid, m)
	}
	return valid, skipped
}

// schedule hands a meeting to the scheduler if it is upcoming or recurring.
// Scheduling failures are logged and never undo registration.
func (s *MeetingService) schedule(m domain.Meeting) {
	if s.scheduler == nil || !m.ShouldSchedule(s.now()) {
		return
	}
	if err := s.scheduler.Schedule(m); err != nil {
		s.log.Warn("failed to schedule meeting", logger.Meeting(m.ID), logger.Err(err))
	}
}

// saveLocked persists the registry. Caller holds the write lock.
func (s *MeetingService) saveLocked(ctx context.Context) error {
	if err := s.store.Save(ctx, s.sortedLocked()); err != nil {
		if errors.Is(err, domain.ErrPersistence) {
			return err
		}
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return nil
}

func (s *MeetingService) sortedLocked() []domain.Meeting {
	out := make([]domain.Meeting, 0, len(s.meetings))
	for _, m := range s.meetings {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}
