package models

import "time"

// EquipmentItem is a user-owned item with an expiration date. The
// NotificationSent flag is the only field mutated by the background
// scanner rather than the owner.
type EquipmentItem struct {
	ID               string    `bson:"_id" json:"id"`
	UserID           string    `bson:"user_id" json:"user_id"`
	Name             string    `bson:"name" json:"name"`
	Description      string    `bson:"description,omitempty" json:"description,omitempty"`
	ExpirationDate   string    `bson:"expiration_date" json:"expiration_date"` // YYYY-MM-DD
	NotificationSent bool      `bson:"notification_sent" json:"notification_sent"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
}

// ExpiryLevel classifies how urgently an equipment item needs attention.
type ExpiryLevel string

const (
	ExpiryExpired  ExpiryLevel = "expired"
	ExpiryCritical ExpiryLevel = "critical"
	ExpiryWarning  ExpiryLevel = "warning"
	ExpiryInfo     ExpiryLevel = "info"
	ExpiryNormal   ExpiryLevel = "normal"
)

// ExpiryStatus pairs an equipment item with its urgency relative to a
// reference day.
type ExpiryStatus struct {
	Item      EquipmentItem `json:"item"`
	DaysUntil int           `json:"days_until"`
	Level     ExpiryLevel   `json:"level"`
}

// NotifyResult reports the outcome of one per-owner notification batch.
type NotifyResult struct {
	UserID        string   `json:"user_id"`
	ItemsNotified []string `json:"items_notified"`
	Success       bool     `json:"success"`
	Error         string   `json:"error,omitempty"`
}
