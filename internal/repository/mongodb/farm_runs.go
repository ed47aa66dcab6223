package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nkoivu/bossfarm/internal/domain/models"
)

// ErrNotFound indicates the requested document does not exist or is not
// owned by the caller.
var ErrNotFound = errors.New("document not found")

// RunFilter narrows a farm-run query. UserID is empty only for the
// cross-user export listing; date bounds are inclusive YYYY-MM-DD strings.
type RunFilter struct {
	UserID    string
	BossID    string
	StartDate string
	EndDate   string
}

// InsertRun stores a new farm run with its embedded loot lines.
func (r *MongoDBRepository) InsertRun(ctx context.Context, run models.FarmRun) error {
	if _, err := r.collection(farmRunsCollection).InsertOne(ctx, run); err != nil {
		return fmt.Errorf("failed to insert farm run: %w", err)
	}
	return nil
}

// ListRuns returns runs matching the filter, newest date first. Canonical
// YYYY-MM-DD dates order lexicographically, so range bounds and sorting
// work on the raw strings.
func (r *MongoDBRepository) ListRuns(ctx context.Context, filter RunFilter) ([]models.FarmRun, error) {
	query := bson.M{}
	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	}
	if filter.BossID != "" {
		query["boss_id"] = filter.BossID
	}

	dateBounds := bson.M{}
	if filter.StartDate != "" {
		dateBounds["$gte"] = filter.StartDate
	}
	if filter.EndDate != "" {
		dateBounds["$lte"] = filter.EndDate
	}
	if len(dateBounds) > 0 {
		query["date"] = dateBounds
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "created_at", Value: -1}})

	cursor, err := r.collection(farmRunsCollection).Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query farm runs: %w", err)
	}
	defer cursor.Close(ctx)

	runs := make([]models.FarmRun, 0)
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, fmt.Errorf("failed to decode farm runs: %w", err)
	}
	return runs, nil
}

// DeleteRun removes a run owned by the given user.
func (r *MongoDBRepository) DeleteRun(ctx context.Context, userID, runID string) error {
	res, err := r.collection(farmRunsCollection).DeleteOne(ctx, bson.M{"_id": runID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete farm run: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
