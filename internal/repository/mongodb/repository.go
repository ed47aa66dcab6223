package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nkoivu/bossfarm/internal/domain/models"
)

// FarmRunRepository defines storage operations for farm runs.
type FarmRunRepository interface {
	InsertRun(ctx context.Context, run models.FarmRun) error
	ListRuns(ctx context.Context, filter RunFilter) ([]models.FarmRun, error)
	DeleteRun(ctx context.Context, userID, runID string) error
}

// LootRepository defines storage operations for the loot catalog and its
// price history.
type LootRepository interface {
	ListItems(ctx context.Context, bossID string) ([]models.LootItem, error)
	FindItemByName(ctx context.Context, bossID, name string) (*models.LootItem, error)
	InsertItem(ctx context.Context, item models.LootItem) error
	UpdateItemPrice(ctx context.Context, itemID string, price float64) (*models.LootItem, error)
	InsertPriceEntry(ctx context.Context, entry models.PriceHistoryEntry) error
	ListPriceEntries(ctx context.Context, lootItemID string, limit int) ([]models.PriceHistoryEntry, error)
}

// EquipmentRepository defines storage operations for equipment items.
type EquipmentRepository interface {
	ListByOwner(ctx context.Context, userID string) ([]models.EquipmentItem, error)
	GetByID(ctx context.Context, userID, itemID string) (*models.EquipmentItem, error)
	Insert(ctx context.Context, item models.EquipmentItem) error
	Update(ctx context.Context, item models.EquipmentItem) error
	Delete(ctx context.Context, userID, itemID string) error
	ListExpiringUnnotified(ctx context.Context, fromDate, toDate string) ([]models.EquipmentItem, error)
	MarkNotified(ctx context.Context, itemIDs []string) error
}

// BossRepository exposes the static boss reference data.
type BossRepository interface {
	ListBosses(ctx context.Context) ([]models.Boss, error)
}

const (
	farmRunsCollection     = "farm_runs"
	lootItemsCollection    = "loot_items"
	priceHistoryCollection = "price_history"
	equipmentCollection    = "equipment"
	bossesCollection       = "bosses"
)

// MongoDBRepository implements all repository interfaces against a single
// MongoDB database.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
}

// NewMongoDBRepository connects to MongoDB and verifies the connection.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{client: client, dbName: dbName}, nil
}

func (r *MongoDBRepository) collection(name string) *mongo.Collection {
	return r.client.Database(r.dbName).Collection(name)
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
