package models

import "time"

// FarmRun captures one recorded boss-farming session. Runs are immutable
// once recorded; the only mutation path is full deletion.
type FarmRun struct {
	ID            string     `bson:"_id" json:"id"`
	UserID        string     `bson:"user_id" json:"user_id"`
	BossID        string     `bson:"boss_id" json:"boss_id"`
	Date          string     `bson:"date" json:"date"` // day granularity, YYYY-MM-DD
	Kills         int        `bson:"kills" json:"kills"`
	Chests        int        `bson:"chests" json:"chests"`
	TimeSpent     int        `bson:"time_spent" json:"time_spent"` // minutes
	TotalEarnings float64    `bson:"total_earnings" json:"total_earnings"`
	Notes         string     `bson:"notes,omitempty" json:"notes,omitempty"`
	Loot          []LootLine `bson:"loot,omitempty" json:"loot,omitempty"`
	CreatedAt     time.Time  `bson:"created_at" json:"created_at"`
}

// LootLine is one loot entry inside a farm run. PriceAtTime snapshots the
// item price at recording time so later catalog edits do not rewrite
// historical earnings.
type LootLine struct {
	LootItemID  string  `bson:"loot_item_id" json:"loot_item_id"`
	Name        string  `bson:"name" json:"name"`
	Quantity    int     `bson:"quantity" json:"quantity"`
	PriceAtTime float64 `bson:"price_at_time" json:"price_at_time"`
	TotalValue  float64 `bson:"total_value" json:"total_value"`
}
