package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/martclinic/clinic-auth/internal/core/domain"
	"github.com/martclinic/clinic-auth/internal/core/ports"
)

const (
	activityCollection = "activity_log"
	activityCounterID  = "activity_id"
)

const defaultActivityLimit = 100

// ActivityRepository is the durable ActivityLog. Entries are append-only and
// carry a monotonic id from the counters collection, so a record keeps the
// same id across queries and pages. Recent reads newest-first for the
// activity screen.
type ActivityRepository struct {
	coll     *mongo.Collection
	counters *mongo.Collection
}

var _ ports.ActivityLog = (*ActivityRepository)(nil)

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{
		coll:     db.Collection(activityCollection),
		counters: db.Collection(counterCollection),
	}
}

type mongoActivity struct {
	ActivityID int64  `bson:"activity_id"`
	UserID     int64  `bson:"user_id"`
	Action     string `bson:"action"`
	Resource   string `bson:"resource"`
	ResourceID *int64 `bson:"resource_id,omitempty"`
	Details    string `bson:"details,omitempty"`
	IPAddress  string `bson:"ip_address"`
	UserAgent  string `bson:"user_agent"`
	Timestamp  int64  `bson:"timestamp"`
}

func (r *ActivityRepository) Record(ctx context.Context, in ports.ActivityInput) error {
	id, err := nextSeq(ctx, r.counters, activityCounterID)
	if err != nil {
		return err
	}
	doc := mongoActivity{
		ActivityID: id,
		UserID:     in.UserID,
		Action:     in.Action,
		Resource:   in.Resource,
		ResourceID: in.ResourceID,
		Details:    in.Details,
		IPAddress:  in.IPAddress,
		UserAgent:  in.UserAgent,
		Timestamp:  time.Now().UTC().Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

func (r *ActivityRepository) Recent(ctx context.Context, userID int64, limit int) ([]*domain.ActivityRecord, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	filter := bson.M{}
	if userID != 0 {
		filter["user_id"] = userID
	}
	cur, err := r.coll.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "activity_id", Value: -1}}).
		SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.ActivityRecord
	for cur.Next(ctx) {
		var ma mongoActivity
		if err := cur.Decode(&ma); err != nil {
			return nil, fmt.Errorf("decode activity: %w", err)
		}
		out = append(out, &domain.ActivityRecord{
			ID:         ma.ActivityID,
			UserID:     ma.UserID,
			Action:     ma.Action,
			Resource:   ma.Resource,
			ResourceID: ma.ResourceID,
			Details:    ma.Details,
			IPAddress:  ma.IPAddress,
			UserAgent:  ma.UserAgent,
			Timestamp:  time.Unix(ma.Timestamp, 0).UTC(),
		})
	}
	return out, cur.Err()
}
