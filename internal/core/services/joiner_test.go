package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/autojoin/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/autojoin/internal/core/domain"
	"github.com/custodia-labs/autojoin/internal/core/handlers"
)

// stubHandler implements handlers.Handler with a canned outcome.
type stubHandler struct {
	platform domain.Platform
	outcome  handlers.Outcome
	err      error
	req      domain.JoinRequest
	closed   int
}

var _ handlers.Handler = (*stubHandler)(nil)

func (h *stubHandler) Platform() domain.Platform { return h.platform }

func (h *stubHandler) CheckSession(context.Context) (string, error) { return "", nil }

func (h *stubHandler) ReconcileAccount(context.Context, domain.JoinRequest) (string, error) {
	return "", nil
}

func (h *stubHandler) Join(_ context.Context, req domain.JoinRequest) (handlers.Outcome, error) {
	h.req = req
	return h.outcome, h.err
}

func (h *stubHandler) Close() error {
	h.closed++
	return nil
}

func newTestJoiner(h *stubHandler) (*Joiner, *memory.HistoryStore, *mockMetrics) {
	history := memory.NewHistoryStore()
	metrics := &mockMetrics{}
	j := NewJoinerWithFactory(func(p domain.Platform) (handlers.Handler, error) {
		h.platform = p
		return h, nil
	}, history, metrics)

	tick := testNow
	j.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	return j, history, metrics
}

func TestJoiner_Success(t *testing.T) {
	h := &stubHandler{outcome: handlers.Outcome{Path: domain.JoinPathBrowser, Account: "me@example.com"}}
	j, history, metrics := newTestJoiner(h)
	m := testMeeting("m1", testNow.Add(time.Minute))
	m.RequiredEmail = "me@example.com"

	result := j.Join(context.Background(), m)

	require.NotNil(t, result)
	assert.True(t, result.Success)
	assert.Equal(t, domain.ReasonNone, result.Reason)
	assert.Equal(t, domain.JoinPathBrowser, result.Path)
	assert.Equal(t, "me@example.com", result.Account)
	assert.Equal(t, time.Second, result.Duration())
	assert.Equal(t, m.JoinRequest(), h.req)
	assert.Equal(t, 1, h.closed)

	recorded, err := history.ListAttempts(context.Background(), "m1", 0)
	require.NoError(t, err)
	require.Len(t, recorded, 1)
	assert.NotEmpty(t, recorded[0].AttemptID)
	assert.True(t, recorded[0].Success)

	require.Len(t, metrics.joins, 1)
	assert.Equal(t, domain.ReasonNone, metrics.joins[0])
}

func TestJoiner_FailureIsClassifiedAndRecordedOnce(t *testing.T) {
	h := &stubHandler{err: fmt.Errorf("sign in: %w", domain.ErrCredentialMissing)}
	j, history, metrics := newTestJoiner(h)

	result := j.Join(context.Background(), testMeeting("m1", testNow))

	assert.False(t, result.Success)
	assert.Equal(t, domain.ReasonCredentialMissing, result.Reason)
	assert.Contains(t, result.Error, "sign in")
	assert.Equal(t, 1, h.closed)

	recorded, err := history.ListAttempts(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Len(t, recorded, 1)
	assert.Len(t, metrics.joins, 1)
}

func TestJoiner_InvalidMeetingNeverCreatesHandler(t *testing.T) {
	created := false
	history := memory.NewHistoryStore()
	j := NewJoinerWithFactory(func(domain.Platform) (handlers.Handler, error) {
		created = true
		return &stubHandler{}, nil
	}, history, nil)
	m := testMeeting("m1", testNow)
	m.MeetingID = ""

	result := j.Join(context.Background(), m)

	assert.False(t, created)
	assert.False(t, result.Success)
	assert.Equal(t, domain.ReasonValidation, result.Reason)
}

func TestJoiner_FactoryError(t *testing.T) {
	j := NewJoinerWithFactory(func(domain.Platform) (handlers.Handler, error) {
		return nil, domain.ErrUnsupportedPlatform
	}, nil, nil)

	result := j.Join(context.Background(), testMeeting("m1", testNow))

	assert.False(t, result.Success)
	assert.Equal(t, domain.ReasonUnsupported, result.Reason)
}

func TestJoiner_CancelledAttemptStillRecorded(t *testing.T) {
	h := &stubHandler{err: context.Canceled}
	j, history, _ := newTestJoiner(h)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := j.Join(ctx, testMeeting("m1", testNow))

	assert.False(t, result.Success)
	recorded, err := history.ListAttempts(context.Background(), "m1", 0)
	require.NoError(t, err)
	assert.Len(t, recorded, 1)
}

func TestJoiner_History(t *testing.T) {
	h := &stubHandler{}
	j, _, _ := newTestJoiner(h)
	for i := 0; i < 3; i++ {
		j.Join(context.Background(), testMeeting("m1", testNow))
	}
	j.Join(context.Background(), testMeeting("m2", testNow))

	all, err := j.History(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, "m2", all[0].MeetingID, "newest first")

	limited, err := j.History(context.Background(), "m1", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestJoiner_HistoryWithoutStore(t *testing.T) {
	j := NewJoinerWithFactory(func(domain.Platform) (handlers.Handler, error) {
		return nil, errors.New("unused")
	}, nil, nil)

	attempts, err := j.History(context.Background(), "", 10)

	require.NoError(t, err)
	assert.Empty(t, attempts)
}
