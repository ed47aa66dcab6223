package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nkoivu/bossfarm/internal/domain/models"
)

// ListBosses returns the boss reference data sorted by name. Bosses are
// seeded out of band; the application never writes to this collection.
func (r *MongoDBRepository) ListBosses(ctx context.Context) ([]models.Boss, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection(bossesCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query bosses: %w", err)
	}
	defer cursor.Close(ctx)

	bosses := make([]models.Boss, 0)
	if err := cursor.All(ctx, &bosses); err != nil {
		return nil, fmt.Errorf("failed to decode bosses: %w", err)
	}
	return bosses, nil
}
