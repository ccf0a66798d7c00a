package ports

import (
	"context"

	"github.com/martclinic/clinic-auth/internal/core/domain"
)

// ActivityInput is one audit event to be recorded.
type ActivityInput struct {
	UserID     int64
	Action     string
	Resource   string
	ResourceID *int64
	Details    string
	IPAddress  string
	UserAgent  string
}

// ActivitySink persists audit entries. Recording is best-effort: callers
// swallow errors and never let a failed write abort the operation that
// triggered it.
type ActivitySink interface {
	Record(ctx context.Context, in ActivityInput) error
}

// ActivityLog extends ActivitySink with the read side used by the activity
// screen. Listing is newest-first; userID 0 means no filter. Record ids are
// stable storage identities: the same entry keeps its id across queries and
// pages regardless of the backing implementation.
type ActivityLog interface {
	ActivitySink
	Recent(ctx context.Context, userID int64, limit int) ([]*domain.ActivityRecord, error)
}
