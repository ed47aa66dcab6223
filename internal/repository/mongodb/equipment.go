package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nkoivu/bossfarm/internal/domain/models"
)

// ListByOwner returns a user's equipment sorted by ascending expiration.
func (r *MongoDBRepository) ListByOwner(ctx context.Context, userID string) ([]models.EquipmentItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "expiration_date", Value: 1}})
	cursor, err := r.collection(equipmentCollection).Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query equipment: %w", err)
	}
	defer cursor.Close(ctx)

	items := make([]models.EquipmentItem, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode equipment: %w", err)
	}
	return items, nil
}

// GetByID fetches one equipment item owned by the given user.
func (r *MongoDBRepository) GetByID(ctx context.Context, userID, itemID string) (*models.EquipmentItem, error) {
	var item models.EquipmentItem
	err := r.collection(equipmentCollection).FindOne(ctx, bson.M{"_id": itemID, "user_id": userID}).Decode(&item)
	if err != nil {
		if isNoDocuments(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find equipment item: %w", err)
	}
	return &item, nil
}

// Insert stores a new equipment item.
func (r *MongoDBRepository) Insert(ctx context.Context, item models.EquipmentItem) error {
	if _, err := r.collection(equipmentCollection).InsertOne(ctx, item); err != nil {
		return fmt.Errorf("failed to insert equipment item: %w", err)
	}
	return nil
}

// Update replaces a stored equipment item, keyed by id and owner.
func (r *MongoDBRepository) Update(ctx context.Context, item models.EquipmentItem) error {
	res, err := r.collection(equipmentCollection).ReplaceOne(ctx,
		bson.M{"_id": item.ID, "user_id": item.UserID}, item)
	if err != nil {
		return fmt.Errorf("failed to update equipment item: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an equipment item owned by the given user.
func (r *MongoDBRepository) Delete(ctx context.Context, userID, itemID string) error {
	res, err := r.collection(equipmentCollection).DeleteOne(ctx, bson.M{"_id": itemID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete equipment item: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListExpiringUnnotified returns, across all users, the items expiring
// within [fromDate, toDate] whose notification flag is still unset.
func (r *MongoDBRepository) ListExpiringUnnotified(ctx context.Context, fromDate, toDate string) ([]models.EquipmentItem, error) {
	query := bson.M{
		"expiration_date":   bson.M{"$gte": fromDate, "$lte": toDate},
		"notification_sent": false,
	}

	cursor, err := r.collection(equipmentCollection).Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query expiring equipment: %w", err)
	}
	defer cursor.Close(ctx)

	items := make([]models.EquipmentItem, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode expiring equipment: %w", err)
	}
	return items, nil
}

// MarkNotified flips the notification flag for every listed item in one
// in-list update.
func (r *MongoDBRepository) MarkNotified(ctx context.Context, itemIDs []string) error {
	if len(itemIDs) == 0 {
		return nil
	}

	_, err := r.collection(equipmentCollection).UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": itemIDs}},
		bson.M{"$set": bson.M{"notification_sent": true}})
	if err != nil {
		return fmt.Errorf("failed to mark equipment notified: %w", err)
	}
	return nil
}
