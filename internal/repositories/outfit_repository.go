package repositories

import "wardrobe/internal/models"

// OutfitRepository defines the interface for shared outfit data access.
type OutfitRepository interface {
	// Create persists the outfit together with its ordered item references.
	Create(outfit *models.SharedOutfit, itemIDs []string) error
	ListRecent(limit int) ([]models.SharedOutfit, error)
	ListByUser(userID string, limit int) ([]models.SharedOutfit, error)
	// ItemsFor returns the still-existing items referenced by an outfit, in
	// publish order. References to deleted items are dropped, not errored.
	ItemsFor(outfitID string) ([]models.ClothingItem, error)
}
