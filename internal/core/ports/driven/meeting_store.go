package driven

import (
	"context"

	"github.com/custodia-labs/autojoin/internal/core/domain"
)

// MeetingSnapshotStore persists the full set of registered meetings as a
// single snapshot. Every Save replaces the previous snapshot.
type MeetingSnapshotStore interface {
	// Load reads the snapshot. A missing snapshot yields an empty result.
	// Records that cannot be decoded are reported in Skipped and do not
	// prevent the rest from loading. A snapshot that cannot be parsed at
	// all returns an error wrapping domain.ErrPersistence.
	Load(ctx context.Context) (domain.SnapshotLoad, error)

	// Save writes the given meetings as the new snapshot.
	Save(ctx context.Context, meetings []domain.Meeting) error

	// Path returns the snapshot location for display and watching.
	Path() string

	// Quarantine moves an unreadable snapshot aside so the next Save does
	// not replace it, and returns where it went. It returns "" when there
	// is no snapshot to move.
	Quarantine(ctx context.Context) (string, error)
}
