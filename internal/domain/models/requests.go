package models

// CreateFarmRunRequest is the payload for recording a new farm run.
type CreateFarmRunRequest struct {
	BossID        string           `json:"bossId" binding:"required"`
	Date          string           `json:"date" binding:"required"`
	Kills         int              `json:"kills" binding:"min=0"`
	Chests        int              `json:"chests" binding:"min=0"`
	TimeSpent     int              `json:"timeSpent" binding:"min=0"`
	TotalEarnings float64          `json:"totalEarnings" binding:"min=0"`
	Notes         string           `json:"notes"`
	Loot          []LootEntryInput `json:"loot"`
}

// LootEntryInput is one loot line as submitted by the client. The price is
// snapshotted onto the run; unknown item names create catalog entries.
type LootEntryInput struct {
	Name     string  `json:"name" binding:"required"`
	Quantity int     `json:"quantity" binding:"required,gt=0"`
	Price    float64 `json:"price" binding:"min=0"`
}

// UpdateLootPriceRequest changes a loot item's current base price.
type UpdateLootPriceRequest struct {
	ID        string  `json:"id" binding:"required"`
	BasePrice float64 `json:"basePrice" binding:"min=0"`
}

// CreateEquipmentRequest registers a new equipment item.
type CreateEquipmentRequest struct {
	Name           string `json:"name" binding:"required"`
	Description    string `json:"description"`
	ExpirationDate string `json:"expiration_date" binding:"required"`
}

// UpdateEquipmentRequest edits an equipment item. Nil fields are left
// untouched; a changed expiration date re-arms the notification flag.
type UpdateEquipmentRequest struct {
	Name           *string `json:"name"`
	Description    *string `json:"description"`
	ExpirationDate *string `json:"expiration_date"`
}
