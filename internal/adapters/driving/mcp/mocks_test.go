package mcp

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/autojoin/internal/core/domain"
	"github.com/custodia-labs/autojoin/internal/core/ports/driven"
	"github.com/custodia-labs/autojoin/internal/core/ports/driving"
)

var (
	_ driving.MeetingService = (*mockMeetingService)(nil)
	_ driving.Joiner         = (*mockJoiner)(nil)
	_ driving.Scheduler      = (*mockScheduler)(nil)
)

// mockMeetingService keeps meetings in a map and validates on Add.
type mockMeetingService struct {
	mu       sync.Mutex
	meetings map[string]domain.Meeting
	err      error
}

func newMockMeetingService(ms ...domain.Meeting) *mockMeetingService {
	m := &mockMeetingService{meetings: make(map[string]domain.Meeting)}
	for _, meeting := range ms {
		m.meetings[meeting.ID] = meeting
	}
	return m
}

func (m *mockMeetingService) Add(_ context.Context, meeting domain.Meeting) (bool, error) {
	if err := meeting.Validate(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.meetings[meeting.ID]; ok {
		return false, nil
	}
	m.meetings[meeting.ID] = meeting
	return true, m.err
}

func (m *mockMeetingService) Remove(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.meetings[id]
	delete(m.meetings, id)
	return ok, m.err
}

func (m *mockMeetingService) Get(_ context.Context, id string) (domain.Meeting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	meeting, ok := m.meetings[id]
	if !ok {
		return domain.Meeting{}, domain.ErrNotFound
	}
	return meeting, nil
}

func (m *mockMeetingService) List(_ context.Context) []domain.Meeting {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Meeting, 0, len(m.meetings))
	for _, meeting := range m.meetings {
		out = append(out, meeting)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

func (m *mockMeetingService) Load(context.Context) (domain.SnapshotLoad, error) {
	return domain.SnapshotLoad{}, nil
}

func (m *mockMeetingService) Reload(context.Context) error { return nil }

func (m *mockMeetingService) Import(context.Context, driven.CalendarImporter) (domain.ImportReport, error) {
	return domain.ImportReport{}, nil
}

type mockJoiner struct {
	history   []domain.JoinResult
	err       error
	meetingID string
	limit     int
}

func (m *mockJoiner) Join(_ context.Context, meeting domain.Meeting) *domain.JoinResult {
	return &domain.JoinResult{MeetingID: meeting.ID, Success: true}
}

func (m *mockJoiner) History(_ context.Context, meetingID string, limit int) ([]domain.JoinResult, error) {
	m.meetingID, m.limit = meetingID, limit
	return m.history, m.err
}

type mockScheduler struct {
	pending []domain.Trigger
}

func (m *mockScheduler) Start(context.Context) error    { return nil }
func (m *mockScheduler) Stop() error                    { return nil }
func (m *mockScheduler) WaitIdle(context.Context) error { return nil }
func (m *mockScheduler) Schedule(domain.Meeting) error  { return nil }
func (m *mockScheduler) Unschedule(string)              {}
func (m *mockScheduler) Pending() []domain.Trigger      { return m.pending }
