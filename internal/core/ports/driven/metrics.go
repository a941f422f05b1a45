package driven

import (
	"time"

	"github.com/custodia-labs/autojoin/internal/core/domain"
)

// MetricsRecorder receives scheduler and join observations.
// A nil recorder is never passed to services; use NopMetrics instead.
type MetricsRecorder interface {
	// SetPendingTriggers reports the number of pending triggers.
	SetPendingTriggers(n int)

	// TriggerFired counts a trigger handed to the joiner.
	TriggerFired(platform domain.Platform)

	// TriggerMissed counts a trigger retired without an attempt.
	TriggerMissed(platform domain.Platform)

	// JoinAttempt records the outcome and duration of one attempt.
	JoinAttempt(platform domain.Platform, path domain.JoinPath, reason domain.FailureReason, d time.Duration)
}

// NopMetrics discards all observations.
type NopMetrics struct{}

// SetPendingTriggers implements MetricsRecorder.
func (NopMetrics) SetPendingTriggers(int) {}

// TriggerFired implements MetricsRecorder.
func (NopMetrics) TriggerFired(domain.Platform) {}

// TriggerMissed implements MetricsRecorder.
func (NopMetrics) TriggerMissed(domain.Platform) {}

// JoinAttempt implements MetricsRecorder.
func (NopMetrics) JoinAttempt(domain.Platform, domain.JoinPath, domain.FailureReason, time.Duration) {
}

var _ MetricsRecorder = NopMetrics{}
