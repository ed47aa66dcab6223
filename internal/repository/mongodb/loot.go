package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nkoivu/bossfarm/internal/domain/models"
)

// ListItems returns the loot catalog for a boss, sorted by name.
func (r *MongoDBRepository) ListItems(ctx context.Context, bossID string) ([]models.LootItem, error) {
	query := bson.M{}
	if bossID != "" {
		query["boss_id"] = bossID
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection(lootItemsCollection).Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query loot items: %w", err)
	}
	defer cursor.Close(ctx)

	items := make([]models.LootItem, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode loot items: %w", err)
	}
	return items, nil
}

// FindItemByName looks up a catalog entry by boss and exact name.
func (r *MongoDBRepository) FindItemByName(ctx context.Context, bossID, name string) (*models.LootItem, error) {
	var item models.LootItem
	err := r.collection(lootItemsCollection).FindOne(ctx, bson.M{"boss_id": bossID, "name": name}).Decode(&item)
	if err != nil {
		if isNoDocuments(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find loot item: %w", err)
	}
	return &item, nil
}

// InsertItem adds a new catalog entry.
func (r *MongoDBRepository) InsertItem(ctx context.Context, item models.LootItem) error {
	if _, err := r.collection(lootItemsCollection).InsertOne(ctx, item); err != nil {
		return fmt.Errorf("failed to insert loot item: %w", err)
	}
	return nil
}

// UpdateItemPrice sets a new base price and returns the updated entry.
func (r *MongoDBRepository) UpdateItemPrice(ctx context.Context, itemID string, price float64) (*models.LootItem, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var item models.LootItem
	err := r.collection(lootItemsCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": itemID},
		bson.M{"$set": bson.M{"base_price": price}},
		opts,
	).Decode(&item)
	if err != nil {
		if isNoDocuments(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update loot item price: %w", err)
	}
	return &item, nil
}

// InsertPriceEntry appends one price-history record. Entries are never
// updated or deleted.
func (r *MongoDBRepository) InsertPriceEntry(ctx context.Context, entry models.PriceHistoryEntry) error {
	if _, err := r.collection(priceHistoryCollection).InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to insert price history entry: %w", err)
	}
	return nil
}

// ListPriceEntries returns the most recent entries for a loot item in
// chronological order, capped at limit.
func (r *MongoDBRepository) ListPriceEntries(ctx context.Context, lootItemID string, limit int) ([]models.PriceHistoryEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "recorded_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection(priceHistoryCollection).Find(ctx, bson.M{"loot_item_id": lootItemID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query price history: %w", err)
	}
	defer cursor.Close(ctx)

	entries := make([]models.PriceHistoryEntry, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode price history: %w", err)
	}

	// Newest-first fetch keeps the limit on the right end; flip to ascending
	// for trend display.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}
