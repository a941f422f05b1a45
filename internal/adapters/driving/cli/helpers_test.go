package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/autojoin/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/autojoin/internal/core/domain"
	"github.com/custodia-labs/autojoin/internal/core/ports/driving"
	coreservices "github.com/custodia-labs/autojoin/internal/core/services"
)

var (
	_ driving.Joiner    = (*mockJoiner)(nil)
	_ driving.Scheduler = (*mockScheduler)(nil)
)

type mockJoiner struct {
	mu      sync.Mutex
	result  domain.JoinResult
	joined  []string
	history []domain.JoinResult
	err     error
}

func (m *mockJoiner) Join(_ context.Context, meeting domain.Meeting) *domain.JoinResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.joined = append(m.joined, meeting.ID)
	r := m.result
	r.MeetingID = meeting.ID
	return &r
}

func (m *mockJoiner) History(_ context.Context, meetingID string, limit int) ([]domain.JoinResult, error) {
	var out []domain.JoinResult
	for _, r := range m.history {
		if meetingID == "" || r.MeetingID == meetingID {
			out = append(out, r)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, m.err
}

type mockScheduler struct {
	mu        sync.Mutex
	started   bool
	stopped   bool
	scheduled []string
	pending   []domain.Trigger
	stopOnce  sync.Once
	stopCh    chan struct{}
}

func newMockScheduler() *mockScheduler {
	return &mockScheduler{stopCh: make(chan struct{})}
}

func (m *mockScheduler) Start(ctx context.Context) error {
	m.mu.Lock()
	m.started = true
	m.mu.Unlock()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-m.stopCh:
		return nil
	}
}

func (m *mockScheduler) Stop() error {
	m.mu.Lock()
	m.stopped = true
	m.mu.Unlock()
	m.stopOnce.Do(func() { close(m.stopCh) })
	return nil
}

func (m *mockScheduler) WaitIdle(context.Context) error { return nil }

func (m *mockScheduler) Schedule(meeting domain.Meeting) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scheduled = append(m.scheduled, meeting.ID)
	return nil
}

func (m *mockScheduler) Unschedule(string) {}

func (m *mockScheduler) Pending() []domain.Trigger { return m.pending }

// testEnv wires real services over memory stores, plus mocks for the
// joiner and the scheduler.
type testEnv struct {
	services  *Services
	snapshot  *memory.SnapshotStore
	secrets   *memory.CredentialStore
	config    *memory.ConfigStore
	joiner    *mockJoiner
	scheduler *mockScheduler
}

func newTestEnv(meetings ...domain.Meeting) *testEnv {
	env := &testEnv{
		snapshot:  memory.NewSnapshotStore(meetings...),
		secrets:   memory.NewCredentialStore(),
		config:    memory.NewConfigStore(),
		joiner:    &mockJoiner{result: domain.JoinResult{Success: true, Path: domain.JoinPathApp}},
		scheduler: newMockScheduler(),
	}
	meetingSvc := coreservices.NewMeetingService(env.snapshot, env.scheduler)
	_, _ = meetingSvc.Load(context.Background())

	env.services = &Services{
		Meetings:    meetingSvc,
		Scheduler:   env.scheduler,
		Joiner:      env.joiner,
		Credentials: coreservices.NewCredentialsService(env.secrets),
		Settings:    coreservices.NewSettingsService(env.config),
		Secrets:     env.secrets,
	}
	return env
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with svc installed and returns its output.
func execute(t *testing.T, svc *Services, args ...string) (string, error) {
	t.Helper()
	return executeContext(t, context.Background(), svc, args...)
}

func executeContext(t *testing.T, ctx context.Context, svc *Services, args ...string) (string, error) {
	t.Helper()

	old := services
	services = svc
	t.Cleanup(func() { services = old })

	resetFlags(rootCmd)
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	})

	err := rootCmd.ExecuteContext(ctx)
	return buf.String(), err
}

func futureMeeting(id string, in time.Duration) domain.Meeting {
	return domain.Meeting{
		ID:        id,
		Title:     "Meeting " + id,
		Platform:  domain.PlatformZoom,
		StartTime: time.Now().Add(in).Truncate(time.Second),
		Duration:  30 * time.Minute,
		URL:       "https://zoom.us/j/123456789",
	}
}
