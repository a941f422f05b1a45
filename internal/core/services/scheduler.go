package services

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/custodia-labs/autojoin/internal/core/domain"
	"github.com/custodia-labs/autojoin/internal/core/ports/driven"
	"github.com/custodia-labs/autojoin/internal/core/ports/driving"
	"github.com/custodia-labs/autojoin/internal/logger"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

// Scheduler fires one join attempt per meeting occurrence.
// It owns the trigger table; nothing else holds scheduling state.
type Scheduler struct {
	config  domain.SchedulerConfig
	joiner  driving.Joiner
	metrics driven.MetricsRecorder
	sem     *semaphore.Weighted
	log     *slog.Logger
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]*scheduledEntry
	fired   map[string]time.Time
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	wg      sync.WaitGroup
}

// scheduledEntry pairs a pending trigger with the meeting it fires.
type scheduledEntry struct {
	trigger domain.Trigger
	meeting domain.Meeting
}

// NewScheduler creates a scheduler with configuration.
// A nil metrics recorder discards observations.
func NewScheduler(
	config domain.SchedulerConfig,
	joiner driving.Joiner,
	metrics driven.MetricsRecorder,
) *Scheduler {
	config = config.Normalised()
	if metrics == nil {
		metrics = driven.NopMetrics{}
	}
	return &Scheduler{
		config:  config,
		joiner:  joiner,
		metrics: metrics,
		sem:     semaphore.NewWeighted(int64(config.MaxConcurrentJoins)),
		log:     logger.Component("scheduler"),
		now:     time.Now,
		entries: make(map[string]*scheduledEntry),
		fired:   make(map[string]time.Time),
	}
}

// Start begins the scheduler loop. This method blocks until Stop is called
// or ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	stopCh, doneCh := s.stopCh, s.doneCh
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		close(doneCh)
	}()

	return s.run(ctx, stopCh)
}

// Stop ends the loop after the current wake cycle. In-flight attempts keep
// running; use WaitIdle to wait for them.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	doneCh := s.doneCh
	s.mu.Unlock()

	timer := time.NewTimer(s.config.StopTimeout)
	defer timer.Stop()

	select {
	case <-doneCh:
		return nil
	case <-timer.C:
		return domain.ErrStopTimeout
	}
}

// WaitIdle blocks until no join attempt is in flight or ctx is done.
func (s *Scheduler) WaitIdle(ctx context.Context) error {
	idle := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(idle)
	}()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Schedule registers the trigger for a meeting's stored occurrence.
func (s *Scheduler) Schedule(meeting domain.Meeting) error {
	if err := meeting.Validate(); err != nil {
		return err
	}
	fireTime := meeting.FireTime(s.config.LeadTime)

	s.mu.Lock()
	defer s.mu.Unlock()

	if firedAt, ok := s.fired[meeting.ID]; ok && firedAt.Equal(fireTime) {
		return nil
	}
	if e, ok := s.entries[meeting.ID]; ok && e.trigger.FireTime.Equal(fireTime) {
		e.meeting = meeting
		return nil
	}

	s.entries[meeting.ID] = &scheduledEntry{
		trigger: domain.Trigger{
			MeetingID: meeting.ID,
			Title:     meeting.Title,
			Platform:  meeting.Platform,
			FireTime:  fireTime,
		},
		meeting: meeting,
	}
	s.metrics.SetPendingTriggers(len(s.entries))
	s.log.Debug("trigger scheduled", logger.Meeting(meeting.ID), slog.Time("fire_time", fireTime))
	return nil
}

// Unschedule drops the pending trigger for a meeting and forgets that it
// fired, so a later registration under the same id starts fresh.
func (s *Scheduler) Unschedule(meetingID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.fired, meetingID)
	if _, ok := s.entries[meetingID]; !ok {
		return
	}
	delete(s.entries, meetingID)
	s.metrics.SetPendingTriggers(len(s.entries))
}

// Pending returns the pending triggers ordered by fire time.
func (s *Scheduler) Pending() []domain.Trigger {
	s.mu.Lock()
	triggers := make([]domain.Trigger, 0, len(s.entries))
	for _, e := range s.entries {
		triggers = append(triggers, e.trigger)
	}
	s.mu.Unlock()

	sort.Slice(triggers, func(i, j int) bool {
		if triggers[i].FireTime.Equal(triggers[j].FireTime) {
			return triggers[i].MeetingID < triggers[j].MeetingID
		}
		return triggers[i].FireTime.Before(triggers[j].FireTime)
	})
	return triggers
}

// run is the main scheduler loop.
func (s *Scheduler) run(ctx context.Context, stopCh <-chan struct{}) error {
	// Check for due triggers immediately on startup
	s.checkAndFireDue(ctx)

	ticker := time.NewTicker(s.config.WakeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			s.checkAndFireDue(ctx)
		}
	}
}

// checkAndFireDue retires every due trigger and dispatches its attempt.
// A trigger is retired before dispatch, so it fires at most once.
func (s *Scheduler) checkAndFireDue(ctx context.Context) {
	now := s.now()

	s.mu.Lock()
	var due []scheduledEntry
	for id, e := range s.entries {
		if !e.trigger.IsDue(now) {
			continue
		}
		due = append(due, *e)
		s.fired[id] = e.trigger.FireTime
		delete(s.entries, id)
	}
	pending := len(s.entries)
	s.mu.Unlock()

	if len(due) == 0 {
		return
	}
	s.metrics.SetPendingTriggers(pending)

	sort.Slice(due, func(i, j int) bool {
		return due[i].trigger.FireTime.Before(due[j].trigger.FireTime)
	})
	for i := range due {
		e := due[i]
		if e.meeting.HasEnded(now) {
			s.log.Warn("meeting already ended, trigger retired",
				logger.Meeting(e.meeting.ID), logger.Platform(e.meeting.Platform.String()))
			s.metrics.TriggerMissed(e.meeting.Platform)
			continue
		}
		s.dispatch(ctx, e.meeting)
	}
}

// dispatch runs one attempt in the background. The attempt is detached from
// ctx cancellation so stopping the scheduler never interrupts it.
func (s *Scheduler) dispatch(ctx context.Context, meeting domain.Meeting) {
	s.metrics.TriggerFired(meeting.Platform)
	s.log.Info("trigger fired", logger.Meeting(meeting.ID), logger.Platform(meeting.Platform.String()))

	if s.joiner == nil {
		return
	}

	attemptCtx := context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		if err := s.sem.Acquire(attemptCtx, 1); err != nil {
			s.log.Error("join slot unavailable", logger.Meeting(meeting.ID), logger.Err(err))
			return
		}
		defer s.sem.Release(1)

		// Failures are reported by the joiner and never retried here.
		_ = s.joiner.Join(attemptCtx, meeting)
	}()
}
