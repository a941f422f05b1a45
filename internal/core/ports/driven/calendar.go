package driven

import (
	"context"

	"github.com/custodia-labs/autojoin/internal/core/domain"
)

// CalendarImporter produces candidate meetings from an external calendar.
// Candidates are registered through the normal Add path, so importers do
// not validate or de-duplicate.
type CalendarImporter interface {
	// Name identifies the source in reports.
	Name() string

	// Import returns the candidate meetings.
	Import(ctx context.Context) ([]domain.Meeting, error)
}
