package driving

import (
	"context"

	"github.com/custodia-labs/autojoin/internal/core/domain"
	"github.com/custodia-labs/autojoin/internal/core/ports/driven"
)

// MeetingService is the meeting registry. It owns every registered meeting,
// persists a snapshot on each change, and hands meetings to the scheduler.
type MeetingService interface {
	// Add registers a meeting. It returns false without error if the id is
	// already registered. Invalid meetings return an error wrapping
	// domain.ErrValidation and are never persisted. A snapshot write failure
	// returns true with an error wrapping domain.ErrPersistence; the meeting
	// stays registered in memory.
	Add(ctx context.Context, meeting domain.Meeting) (bool, error)

	// Remove unregisters a meeting and persists. It returns false if the id
	// is unknown. An attempt already dispatched is not cancelled.
	Remove(ctx context.Context, id string) (bool, error)

	// Get returns a meeting by id or domain.ErrNotFound.
	Get(ctx context.Context, id string) (domain.Meeting, error)

	// List returns all meetings ordered by start time.
	List(ctx context.Context) []domain.Meeting

	// Load replaces the registry with the persisted snapshot and schedules
	// every meeting that is upcoming or recurring.
	Load(ctx context.Context) (domain.SnapshotLoad, error)

	// Reload merges the persisted snapshot into the registry: new ids are
	// registered and scheduled, vanished ids are removed and unscheduled.
	Reload(ctx context.Context) error

	// Import registers the candidates produced by an importer.
	Import(ctx context.Context, importer driven.CalendarImporter) (domain.ImportReport, error)
}
