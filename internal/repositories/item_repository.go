package repositories

import "wardrobe/internal/models"

// ItemRepository defines the interface for clothing item data access.
type ItemRepository interface {
	Create(item *models.ClothingItem) error
	GetByUser(userID string) ([]models.ClothingItem, error)
	GetByIDForUser(id, userID string) (*models.ClothingItem, error)
	GetByIDs(ids []string) ([]models.ClothingItem, error)
	Delete(id string) error
}
