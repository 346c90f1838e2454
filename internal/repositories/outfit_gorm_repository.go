package repositories

import (
	"fmt"

	"wardrobe/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOutfitRepository is a GORM implementation of OutfitRepository.
type GORMOutfitRepository struct {
	db *gorm.DB
}

// NewGORMOutfitRepository creates a new instance of GORMOutfitRepository.
func NewGORMOutfitRepository(db *gorm.DB) *GORMOutfitRepository {
	return &GORMOutfitRepository{
		db: db,
	}
}

// Create persists the outfit and one join row per referenced item, with the
// row position recording publish order. Both writes happen in one
// transaction so a failed join insert leaves no orphan outfit.
func (r *GORMOutfitRepository) Create(outfit *models.SharedOutfit, itemIDs []string) error {
	if outfit.ID == "" {
		outfit.ID = uuid.New().String()
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(outfit).Error; err != nil {
			return err
		}
		for pos, itemID := range itemIDs {
			ref := models.OutfitItem{
				OutfitID: outfit.ID,
				Position: pos,
				ItemID:   itemID,
			}
			if err := tx.Create(&ref).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create shared outfit: %w", err)
	}
	return nil
}

// ListRecent retrieves the most recently published outfits across all users.
func (r *GORMOutfitRepository) ListRecent(limit int) ([]models.SharedOutfit, error) {
	var outfits []models.SharedOutfit
	if err := r.db.Order("created_at DESC").Limit(limit).Find(&outfits).Error; err != nil {
		return nil, fmt.Errorf("failed to list shared outfits: %w", err)
	}
	return outfits, nil
}

// ListByUser retrieves the most recent outfits published by a single user.
func (r *GORMOutfitRepository) ListByUser(userID string, limit int) ([]models.SharedOutfit, error) {
	var outfits []models.SharedOutfit
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Find(&outfits).Error; err != nil {
		return nil, fmt.Errorf("failed to list shared outfits for user %s: %w", userID, err)
	}
	return outfits, nil
}

// ItemsFor expands an outfit's item references in publish order. The inner
// join drops references whose item has since been deleted.
func (r *GORMOutfitRepository) ItemsFor(outfitID string) ([]models.ClothingItem, error) {
	var items []models.ClothingItem
	err := r.db.Model(&models.ClothingItem{}).
		Joins("JOIN outfit_items ON outfit_items.item_id = clothing_items.id").
		Where("outfit_items.outfit_id = ?", outfitID).
		Order("outfit_items.position").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to expand items for outfit %s: %w", outfitID, err)
	}
	return items, nil
}
