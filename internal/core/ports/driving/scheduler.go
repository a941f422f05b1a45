package driving

import (
	"context"

	"github.com/custodia-labs/autojoin/internal/core/domain"
)

// Scheduler fires one join attempt per meeting occurrence at its fire time.
type Scheduler interface {
	// Start runs the wake loop. Blocks until Stop is called or ctx is done.
	Start(ctx context.Context) error

	// Stop ends the wake loop once the current cycle finishes. In-flight
	// attempts are not interrupted. Returns domain.ErrStopTimeout if the
	// loop does not exit in time.
	Stop() error

	// WaitIdle blocks until no join attempt is in flight or ctx is done,
	// returning ctx.Err() in the latter case.
	WaitIdle(ctx context.Context) error

	// Schedule registers or refreshes the trigger for a meeting. It is a
	// no-op when the same occurrence is already pending or has fired.
	Schedule(meeting domain.Meeting) error

	// Unschedule drops a pending trigger, if any.
	Unschedule(meetingID string)

	// Pending returns pending triggers ordered by fire time.
	Pending() []domain.Trigger
}
