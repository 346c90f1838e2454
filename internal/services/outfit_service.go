package services

import (
	"log"

	"wardrobe/internal/apperrors"
	"wardrobe/internal/models"
	"wardrobe/internal/repositories"
	"wardrobe/pkg/rabbitmq"
)

// sharedListLimit caps how many outfits the public listing returns.
const sharedListLimit = 50

// OutfitService handles business logic for shared outfits: publishing an
// ordered item composition and expanding stored references back into items.
type OutfitService struct {
	outfitRepo repositories.OutfitRepository
	itemRepo   repositories.ItemRepository
	mqClient   *rabbitmq.Client // optional; nil disables event publication
}

// NewOutfitService creates a new OutfitService.
func NewOutfitService(outfitRepo repositories.OutfitRepository, itemRepo repositories.ItemRepository, mqClient *rabbitmq.Client) *OutfitService {
	return &OutfitService{
		outfitRepo: outfitRepo,
		itemRepo:   itemRepo,
		mqClient:   mqClient,
	}
}

// Create publishes a new shared outfit from the given item ids. Ids that do
// not resolve to an existing item are dropped; any user's items may be
// referenced, not just the caller's. The stored order is the order the store
// returned the resolved items in.
func (s *OutfitService) Create(user *models.User, itemIDs []string) (string, error) {
	if len(itemIDs) == 0 {
		return "", apperrors.Validation("itemIds must be a non-empty list")
	}

	resolved, err := s.itemRepo.GetByIDs(itemIDs)
	if err != nil {
		return "", err
	}
	if len(resolved) == 0 {
		return "", apperrors.Validation("no valid items in itemIds")
	}
	resolvedIDs := make([]string, 0, len(resolved))
	for i := range resolved {
		resolvedIDs = append(resolvedIDs, resolved[i].ID)
	}

	outfit := &models.SharedOutfit{UserID: user.ID}
	if err := s.outfitRepo.Create(outfit, resolvedIDs); err != nil {
		return "", err
	}

	if s.mqClient != nil {
		err := s.mqClient.PublishEvent("outfit.shared", map[string]interface{}{
			"outfitID": outfit.ID,
			"userID":   user.ID,
			"items":    len(resolvedIDs),
		})
		if err != nil {
			log.Printf("Warning: Failed to publish outfit shared event for outfit %s: %v", outfit.ID, err)
		}
	}
	return outfit.ID, nil
}

// ListRecent returns the most recent shared outfits across all users with
// their items expanded.
func (s *OutfitService) ListRecent() ([]models.OutfitResponse, error) {
	outfits, err := s.outfitRepo.ListRecent(sharedListLimit)
	if err != nil {
		return nil, err
	}
	return s.expand(outfits)
}

// ListMine returns the caller's own shared outfits with their items
// expanded.
func (s *OutfitService) ListMine(userID string) ([]models.OutfitResponse, error) {
	outfits, err := s.outfitRepo.ListByUser(userID, sharedListLimit)
	if err != nil {
		return nil, err
	}
	return s.expand(outfits)
}

// expand resolves each outfit's item references in publish order. References
// to deleted items disappear silently; an outfit whose items are all gone is
// still listed, just empty.
func (s *OutfitService) expand(outfits []models.SharedOutfit) ([]models.OutfitResponse, error) {
	responses := make([]models.OutfitResponse, 0, len(outfits))
	for i := range outfits {
		items, err := s.outfitRepo.ItemsFor(outfits[i].ID)
		if err != nil {
			return nil, err
		}
		itemResponses := make([]models.ItemResponse, 0, len(items))
		for j := range items {
			itemResponses = append(itemResponses, items[j].ToResponse())
		}
		responses = append(responses, models.OutfitResponse{
			ID:        outfits[i].ID,
			UserID:    outfits[i].UserID,
			Items:     itemResponses,
			CreatedAt: outfits[i].CreatedAt,
		})
	}
	return responses, nil
}
