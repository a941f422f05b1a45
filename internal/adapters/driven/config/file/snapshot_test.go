package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/autojoin/internal/core/domain"
)

func newTestSnapshotStore(t *testing.T) *SnapshotStore {
	t.Helper()
	store, err := NewSnapshotStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func sampleMeetings() []domain.Meeting {
	start := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	return []domain.Meeting{
		{
			ID:        "zoom-1",
			Title:     "Standup",
			Platform:  domain.PlatformZoom,
			StartTime: start,
			Duration:  15 * time.Minute,
			MeetingID: "123 456 789",
			Password:  "secret",
		},
		{
			ID:                "teams-1",
			Title:             "Review",
			Platform:          domain.PlatformTeams,
			StartTime:         start.Add(2 * time.Hour),
			Duration:          time.Hour,
			URL:               "https://teams.microsoft.com/l/meetup-join/abc",
			Recurring:         true,
			RecurrencePattern: "weekly",
			RequiredEmail:     "me@example.com",
		},
	}
}

func TestSnapshotStore_RoundTrip(t *testing.T) {
	store := newTestSnapshotStore(t)
	ctx := context.Background()
	want := sampleMeetings()

	require.NoError(t, store.Save(ctx, want))
	loaded, err := store.Load(ctx)
	require.NoError(t, err)

	assert.Empty(t, loaded.Skipped)
	require.Len(t, loaded.Meetings, len(want))
	byID := make(map[string]domain.Meeting)
	for _, m := range loaded.Meetings {
		byID[m.ID] = m
	}
	for i := range want {
		got, ok := byID[want[i].ID]
		require.True(t, ok, want[i].ID)
		assert.True(t, want[i].Equal(&got), "meeting %s changed across round trip", want[i].ID)
	}
}

func TestSnapshotStore_LoadMissingFile(t *testing.T) {
	store := newTestSnapshotStore(t)

	loaded, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, loaded.Meetings)
	assert.Empty(t, loaded.Skipped)
}

func TestSnapshotStore_LoadSkipsBadRecords(t *testing.T) {
	store := newTestSnapshotStore(t)
	content := `{
  "good": {"title": "Good", "platform": "zoom", "start_time": "2026-03-02T09:00:00Z", "duration": 1800, "meeting_id": "1"},
  "bad-platform": {"title": "Bad", "platform": "webex", "start_time": "2026-03-02T09:00:00Z", "duration": 60},
  "bad-time": {"title": "Bad", "platform": "zoom", "start_time": "tomorrow", "duration": 60},
  "bad-duration": {"title": "Bad", "platform": "zoom", "start_time": "2026-03-02T09:00:00Z", "duration": "soon"},
  "not-an-object": 42
}`
	require.NoError(t, os.WriteFile(store.Path(), []byte(content), 0600))

	loaded, err := store.Load(context.Background())

	require.NoError(t, err)
	require.Len(t, loaded.Meetings, 1)
	assert.Equal(t, "good", loaded.Meetings[0].ID)
	assert.Equal(t, 30*time.Minute, loaded.Meetings[0].Duration)

	var skipped []string
	for _, s := range loaded.Skipped {
		skipped = append(skipped, s.ID)
		assert.NotEmpty(t, s.Error)
	}
	assert.ElementsMatch(t, []string{"bad-platform", "bad-time", "bad-duration", "not-an-object"}, skipped)
}

func TestSnapshotStore_LoadLegacyRecord(t *testing.T) {
	store := newTestSnapshotStore(t)
	content := `{"legacy": {"title": "Old", "platform": "google_meet", "start_time": "2026-03-02T09:00:00",
  "duration": "1:30:00", "url": "https://meet.google.com/abc-defg-hij", "meeting_id": null, "password": null,
  "recurring": false, "recurrence_pattern": null}}`
	require.NoError(t, os.WriteFile(store.Path(), []byte(content), 0600))

	loaded, err := store.Load(context.Background())

	require.NoError(t, err)
	require.Len(t, loaded.Meetings, 1)
	m := loaded.Meetings[0]
	assert.Equal(t, domain.PlatformGoogleMeet, m.Platform)
	assert.Equal(t, 90*time.Minute, m.Duration)
	assert.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local), m.StartTime)
	assert.Empty(t, m.MeetingID)
}

func TestSnapshotStore_LoadTopLevelFailure(t *testing.T) {
	store := newTestSnapshotStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("[not, json"), 0600))

	_, err := store.Load(context.Background())

	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestSnapshotStore_Quarantine(t *testing.T) {
	store := newTestSnapshotStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("[not, json"), 0600))

	moved, err := store.Quarantine(context.Background())

	require.NoError(t, err)
	assert.Equal(t, filepath.Dir(store.Path()), filepath.Dir(moved))
	assert.Contains(t, filepath.Base(moved), SnapshotFileName+".corrupt-")
	data, err := os.ReadFile(moved)
	require.NoError(t, err)
	assert.Equal(t, "[not, json", string(data))
	_, err = os.Stat(store.Path())
	assert.True(t, os.IsNotExist(err))

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded.Meetings)
}

func TestSnapshotStore_QuarantineMissingFile(t *testing.T) {
	store := newTestSnapshotStore(t)

	moved, err := store.Quarantine(context.Background())

	require.NoError(t, err)
	assert.Empty(t, moved)
}

func TestSnapshotStore_LoadEmptyFile(t *testing.T) {
	store := newTestSnapshotStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("\n"), 0600))

	loaded, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, loaded.Meetings)
}

func TestSnapshotStore_SaveReplaces(t *testing.T) {
	store := newTestSnapshotStore(t)
	ctx := context.Background()
	meetings := sampleMeetings()

	require.NoError(t, store.Save(ctx, meetings))
	require.NoError(t, store.Save(ctx, meetings[:1]))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Meetings, 1)
	assert.Equal(t, "zoom-1", loaded.Meetings[0].ID)
}

func TestSnapshotStore_SaveWritesSecondsAndPermissions(t *testing.T) {
	store := newTestSnapshotStore(t)
	require.NoError(t, store.Save(context.Background(), sampleMeetings()))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"duration": 900`)

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestSnapshotStore_SaveFailureIsPersistenceError(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSnapshotStore(dir)
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	err = store.Save(context.Background(), sampleMeetings())

	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestSnapshotStore_CancelledContext(t *testing.T) {
	store := newTestSnapshotStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Save(ctx, nil), context.Canceled)
	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseClockDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"0:15:00", 15 * time.Minute, true},
		{"1:00:00", time.Hour, true},
		{"2 days, 1:00:00", 49 * time.Hour, true},
		{"1 day, 0:00:30.5", 24*time.Hour + 30500*time.Millisecond, true},
		{"15 minutes", 0, false},
		{"1:00", 0, false},
		{"x days, 1:00:00", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseClockDuration(tt.in)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
