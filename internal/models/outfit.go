package models

import (
	"time"

	"gorm.io/gorm"
)

// SharedOutfit is a published, ordered composition of clothing items visible
// to all users. The item references live in the outfit_items join table so
// ordering and referential lookups come from the store rather than from a
// hand-encoded id string.
type SharedOutfit struct {
	ID     string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID string `json:"user_id" gorm:"index;type:varchar(36)"`
	gorm.Model
}

// OutfitItem is one ordered item reference inside a shared outfit. Position
// is the publish-time ordering; there is no foreign-key cascade, so a row may
// outlive the item it points at (stale rows are dropped on read).
type OutfitItem struct {
	OutfitID string `json:"outfit_id" gorm:"primaryKey;type:varchar(36)"`
	Position int    `json:"position" gorm:"primaryKey"`
	ItemID   string `json:"item_id" gorm:"index;type:varchar(36)"`
}

// OutfitResponse is the wire shape for a shared outfit, with item references
// expanded to full item payloads.
type OutfitResponse struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	Items     []ItemResponse `json:"items"`
	CreatedAt time.Time      `json:"createdAt"`
}
