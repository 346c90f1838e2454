package repositories

import (
	"fmt"

	"wardrobe/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMItemRepository is a GORM implementation of ItemRepository.
type GORMItemRepository struct {
	db *gorm.DB
}

// NewGORMItemRepository creates a new instance of GORMItemRepository.
func NewGORMItemRepository(db *gorm.DB) *GORMItemRepository {
	return &GORMItemRepository{
		db: db,
	}
}

// Create creates a new clothing item in the database.
func (r *GORMItemRepository) Create(item *models.ClothingItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create clothing item: %w", err)
	}
	return nil
}

// GetByUser retrieves all items owned by a user, newest first.
func (r *GORMItemRepository) GetByUser(userID string) ([]models.ClothingItem, error) {
	var items []models.ClothingItem
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to get items for user %s: %w", userID, err)
	}
	return items, nil
}

// GetByIDForUser retrieves a single item by ID, scoped to its owner.
func (r *GORMItemRepository) GetByIDForUser(id, userID string) (*models.ClothingItem, error) {
	var item models.ClothingItem
	if err := r.db.First(&item, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, fmt.Errorf("failed to get item %s for user %s: %w", id, userID, err)
	}
	return &item, nil
}

// GetByIDs retrieves the items whose IDs are in ids. Missing IDs are simply
// absent from the result; the order is whatever the store returns.
func (r *GORMItemRepository) GetByIDs(ids []string) ([]models.ClothingItem, error) {
	var items []models.ClothingItem
	if len(ids) == 0 {
		return items, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to get items by ids: %w", err)
	}
	return items, nil
}

// Delete deletes an item by its ID.
func (r *GORMItemRepository) Delete(id string) error {
	res := r.db.Delete(&models.ClothingItem{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete item %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("item %s not found for deletion: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}
