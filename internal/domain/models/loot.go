package models

import "time"

// Rarity is an ordered, informational classification for loot items.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// LootItem is a catalog entry for an obtainable item, scoped to one boss.
// It is created implicitly the first time a run records an item not yet
// seen for that boss.
type LootItem struct {
	ID        string    `bson:"_id" json:"id"`
	BossID    string    `bson:"boss_id" json:"boss_id"`
	Name      string    `bson:"name" json:"name"`
	BasePrice float64   `bson:"base_price" json:"base_price"`
	Rarity    Rarity    `bson:"rarity" json:"rarity"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// PriceHistoryEntry is an append-only record of a base-price edit.
type PriceHistoryEntry struct {
	ID         string    `bson:"_id" json:"id"`
	LootItemID string    `bson:"loot_item_id" json:"loot_item_id"`
	Price      float64   `bson:"price" json:"price"`
	RecordedBy string    `bson:"recorded_by" json:"recorded_by"`
	RecordedAt time.Time `bson:"recorded_at" json:"recorded_at"`
}

// Boss is static reference data, read-only from the application's side.
type Boss struct {
	ID          string `bson:"_id" json:"id"`
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	ImageURL    string `bson:"image_url,omitempty" json:"image_url,omitempty"`
}
