package models

import (
	"time"

	"gorm.io/gorm"
)

// ClothingItem represents a single uploaded piece of clothing. The image
// itself lives on disk in the upload directory; ImageFilename is the stored
// (sanitized, uniquified) name.
type ClothingItem struct {
	ID            string   `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID        string   `json:"user_id" gorm:"index;type:varchar(36)"`
	ImageFilename string   `json:"image_filename" gorm:"type:varchar(255)"`
	Category      string   `json:"category" gorm:"type:varchar(100)"`
	Color         string   `json:"color" gorm:"type:varchar(32)"`
	ItemType      string   `json:"item_type" gorm:"type:varchar(50)"` // top/bottom/shoes/accessories/pullover/... (open set)
	Vibes         []string `json:"vibes" gorm:"serializer:json"`
	gorm.Model
}

// ItemResponse is the wire shape for a clothing item.
type ItemResponse struct {
	ID        string    `json:"id"`
	ImageURL  string    `json:"imageUrl"`
	Category  string    `json:"category"`
	Color     string    `json:"color"`
	ItemType  string    `json:"itemType"`
	Vibes     []string  `json:"vibes"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToResponse serializes the item for API responses. Vibes is never null in
// the output, and the image URL is derived from the stored filename.
func (i *ClothingItem) ToResponse() ItemResponse {
	vibes := i.Vibes
	if vibes == nil {
		vibes = []string{}
	}
	return ItemResponse{
		ID:        i.ID,
		ImageURL:  "/api/uploads/" + i.ImageFilename,
		Category:  i.Category,
		Color:     i.Color,
		ItemType:  i.ItemType,
		Vibes:     vibes,
		CreatedAt: i.CreatedAt,
	}
}
