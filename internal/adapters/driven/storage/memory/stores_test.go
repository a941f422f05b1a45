package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/autojoin/internal/core/domain"
)

func TestSnapshotStore_SaveLoad(t *testing.T) {
	store := NewSnapshotStore()
	ctx := context.Background()

	m := domain.Meeting{ID: "m1", Title: "Standup", Platform: domain.PlatformZoom}
	require.NoError(t, store.Save(ctx, []domain.Meeting{m}))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Meeting{m}, loaded.Meetings)
	assert.Equal(t, 1, store.Saves())
}

func TestSnapshotStore_Errors(t *testing.T) {
	store := NewSnapshotStore()
	store.SaveErr = errors.New("disk full")
	store.LoadErr = errors.New("corrupt")

	assert.Error(t, store.Save(context.Background(), nil))
	_, err := store.Load(context.Background())
	assert.Error(t, err)
}

func TestHistoryStore_RecordListPrune(t *testing.T) {
	store := NewHistoryStore()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		r := &domain.JoinResult{MeetingID: "m1", StartedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, store.RecordAttempt(ctx, r))
		assert.NotEmpty(t, r.AttemptID)
	}
	require.NoError(t, store.RecordAttempt(ctx, &domain.JoinResult{MeetingID: "m2", StartedAt: base}))

	all, err := store.ListAttempts(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	m1, err := store.ListAttempts(ctx, "m1", 2)
	require.NoError(t, err)
	require.Len(t, m1, 2)
	assert.True(t, m1[0].StartedAt.After(m1[1].StartedAt))

	require.NoError(t, store.PruneHistory(ctx, 1))
	all, _ = store.ListAttempts(ctx, "", 0)
	assert.Len(t, all, 2)
	m1, _ = store.ListAttempts(ctx, "m1", 0)
	require.Len(t, m1, 1)
	assert.Equal(t, base.Add(2*time.Minute), m1[0].StartedAt)
}

func TestCredentialStore(t *testing.T) {
	store := NewCredentialStore()

	_, err := store.Get("autojoin_zoom", "a@x.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.Set("autojoin_zoom", "a@x.com", "pw"))
	secret, err := store.Get("autojoin_zoom", "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "pw", secret)

	_, err = store.Get("autojoin_teams", "a@x.com")
	assert.ErrorIs(t, err, domain.ErrNotFound, "services never collide")

	require.NoError(t, store.Delete("autojoin_zoom", "a@x.com"))
	assert.ErrorIs(t, store.Delete("autojoin_zoom", "a@x.com"), domain.ErrNotFound)
}
