package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/custodia-labs/autojoin/internal/core/domain"
	"github.com/custodia-labs/autojoin/internal/core/handlers"
	"github.com/custodia-labs/autojoin/internal/core/ports/driven"
	"github.com/custodia-labs/autojoin/internal/core/ports/driving"
	"github.com/custodia-labs/autojoin/internal/logger"
)

// historyKeep is how many attempts are kept per meeting.
const historyKeep = 100

// Ensure Joiner implements the interface.
var _ driving.Joiner = (*Joiner)(nil)

// HandlerFactory creates a fresh handler for one attempt.
type HandlerFactory func(platform domain.Platform) (handlers.Handler, error)

// Joiner runs join attempts and reports each outcome exactly once:
// to the history store, to metrics, and to the log.
type Joiner struct {
	newHandler HandlerFactory
	history    driven.JoinHistoryStore
	metrics    driven.MetricsRecorder
	log        *slog.Logger
	now        func() time.Time
}

// NewJoiner creates a joiner that builds handlers from deps.
// History may be nil; a nil metrics recorder discards observations.
func NewJoiner(deps handlers.Deps, history driven.JoinHistoryStore, metrics driven.MetricsRecorder) *Joiner {
	return NewJoinerWithFactory(func(p domain.Platform) (handlers.Handler, error) {
		return handlers.New(p, deps)
	}, history, metrics)
}

// NewJoinerWithFactory creates a joiner with a custom handler factory.
func NewJoinerWithFactory(factory HandlerFactory, history driven.JoinHistoryStore, metrics driven.MetricsRecorder) *Joiner {
	if metrics == nil {
		metrics = driven.NopMetrics{}
	}
	return &Joiner{
		newHandler: factory,
		history:    history,
		metrics:    metrics,
		log:        logger.Component("joiner"),
		now:        time.Now,
	}
}

// Join runs one attempt. Failures are classified, reported and returned in
// the result; they are never retried.
func (j *Joiner) Join(ctx context.Context, meeting domain.Meeting) *domain.JoinResult {
	result := &domain.JoinResult{
		MeetingID: meeting.ID,
		Title:     meeting.Title,
		Platform:  meeting.Platform,
		StartedAt: j.now(),
	}

	out, err := j.attempt(ctx, meeting)
	result.EndedAt = j.now()
	result.Path = out.Path
	result.Account = out.Account
	result.Success = err == nil
	result.Reason = domain.ReasonOf(err)
	if err != nil {
		result.Error = err.Error()
	}

	j.report(ctx, result)
	return result
}

// History returns recorded attempts newest first.
func (j *Joiner) History(ctx context.Context, meetingID string, limit int) ([]domain.JoinResult, error) {
	if j.history == nil {
		return nil, nil
	}
	return j.history.ListAttempts(ctx, meetingID, limit)
}

func (j *Joiner) attempt(ctx context.Context, meeting domain.Meeting) (handlers.Outcome, error) {
	if err := meeting.Validate(); err != nil {
		return handlers.Outcome{}, err
	}

	h, err := j.newHandler(meeting.Platform)
	if err != nil {
		return handlers.Outcome{}, err
	}
	defer func() {
		if cerr := h.Close(); cerr != nil {
			j.log.Warn("failed to release handler", logger.Meeting(meeting.ID), logger.Err(cerr))
		}
	}()

	logger.Section("Join " + meeting.Title)
	return h.Join(ctx, meeting.JoinRequest())
}

// report records, counts and logs one attempt. Recording failures are logged
// and never change the outcome.
func (j *Joiner) report(ctx context.Context, result *domain.JoinResult) {
	// The attempt may have been cancelled; bookkeeping still happens.
	ctx = context.WithoutCancel(ctx)

	if j.history != nil {
		if err := j.history.RecordAttempt(ctx, result); err != nil {
			j.log.Error("failed to record attempt", logger.Meeting(result.MeetingID), logger.Err(err))
		} else if err := j.history.PruneHistory(ctx, historyKeep); err != nil {
			j.log.Warn("failed to prune history", logger.Err(err))
		}
	}

	j.metrics.JoinAttempt(result.Platform, result.Path, result.Reason, result.Duration())

	attrs := []any{
		logger.Meeting(result.MeetingID),
		logger.Platform(result.Platform.String()),
		slog.String(logger.KeyPath, result.Path.String()),
		logger.Duration(result.Duration()),
	}
	if result.Success {
		j.log.Info("joined meeting", attrs...)
		return
	}
	attrs = append(attrs, slog.String(logger.KeyReason, result.Reason.String()), slog.String(logger.KeyError, result.Error))
	j.log.Error("join failed: "+result.Reason.Description(), attrs...)
}
