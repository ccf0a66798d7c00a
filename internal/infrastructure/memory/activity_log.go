package memory

import (
	"context"
	"sync"
	"time"

	"github.com/martclinic/clinic-auth/internal/core/domain"
	"github.com/martclinic/clinic-auth/internal/core/ports"
)

// maxEntries bounds the in-memory log; older entries fall off the end.
const maxEntries = 100

// ActivityLog keeps recent audit entries in a bounded, newest-first slice.
type ActivityLog struct {
	mu      sync.Mutex
	entries []*domain.ActivityRecord
	nextID  int64
	now     func() time.Time
}

var _ ports.ActivityLog = (*ActivityLog)(nil)

func NewActivityLog() *ActivityLog {
	return &ActivityLog{nextID: 1, now: time.Now}
}

func (l *ActivityLog) Record(_ context.Context, in ports.ActivityInput) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec := &domain.ActivityRecord{
		ID:         l.nextID,
		UserID:     in.UserID,
		Action:     in.Action,
		Resource:   in.Resource,
		ResourceID: in.ResourceID,
		Details:    in.Details,
		IPAddress:  in.IPAddress,
		UserAgent:  in.UserAgent,
		Timestamp:  l.now().UTC(),
	}
	l.nextID++
	l.entries = append([]*domain.ActivityRecord{rec}, l.entries...)
	if len(l.entries) > maxEntries {
		l.entries = l.entries[:maxEntries]
	}
	return nil
}

func (l *ActivityLog) Recent(_ context.Context, userID int64, limit int) ([]*domain.ActivityRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if limit <= 0 || limit > maxEntries {
		limit = maxEntries
	}
	out := make([]*domain.ActivityRecord, 0, limit)
	for _, rec := range l.entries {
		if userID != 0 && rec.UserID != userID {
			continue
		}
		c := *rec
		out = append(out, &c)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}
