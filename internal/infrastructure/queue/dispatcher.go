package queue

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/martclinic/clinic-auth/internal/api/metrics"
	"github.com/martclinic/clinic-auth/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// ActivityDispatcher decouples audit writes from the request path. Record
// enqueues and returns immediately; workers drain to the underlying sink and
// swallow its errors, so a slow or failing audit store can never fail a login
// or profile update. Entries for one user always land on the same worker,
// preserving their relative order.
type ActivityDispatcher struct {
	workers []chan ports.ActivityInput
	sink    ports.ActivitySink
	log     zerolog.Logger
}

var _ ports.ActivitySink = (*ActivityDispatcher)(nil)

// NewActivityDispatcher creates a dispatcher with numWorkers workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewActivityDispatcher(numWorkers int, sink ports.ActivitySink, log zerolog.Logger) *ActivityDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &ActivityDispatcher{
		workers: make([]chan ports.ActivityInput, numWorkers),
		sink:    sink,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.ActivityInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *ActivityDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues one audit entry. When the responsible worker's buffer is
// full the entry is dropped rather than blocking the caller; audit logging
// is best-effort by contract.
func (d *ActivityDispatcher) Record(_ context.Context, in ports.ActivityInput) error {
	idx := d.shardIndex(in.UserID)
	select {
	case d.workers[idx] <- in:
		metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.ActivityRecordsTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().Str("action", in.Action).Int64("user_id", in.UserID).
			Msg("activity queue full, entry dropped")
	}
	return nil
}

func (d *ActivityDispatcher) shardIndex(userID int64) int {
	if userID < 0 {
		userID = -userID
	}
	return int(userID) % len(d.workers)
}

func (d *ActivityDispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.ActivityInput) {
	worker := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case in, ok := <-ch:
			if !ok {
				return
			}
			metrics.ActivityQueueDepth.WithLabelValues(worker).Set(float64(len(ch)))
			if err := d.sink.Record(ctx, in); err != nil {
				metrics.ActivityRecordsTotal.WithLabelValues("error").Inc()
				d.log.Error().Err(err).
					Str("action", in.Action).
					Str("resource", in.Resource).
					Int64("user_id", in.UserID).
					Msg("activity write failed")
				continue
			}
			metrics.ActivityRecordsTotal.WithLabelValues("ok").Inc()
		}
	}
}
