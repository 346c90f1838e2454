package repositories

import (
	"sort"
	"sync"
	"time"

	"wardrobe/internal/models"

	"github.com/google/uuid"
)

// MockOutfitRepository is an in-memory implementation of OutfitRepository.
// Item references are resolved against a backing ItemRepository so that
// stale references behave like they do in the store: silently dropped.
type MockOutfitRepository struct {
	outfits map[string]models.SharedOutfit
	refs    map[string][]models.OutfitItem
	items   ItemRepository
	mu      sync.RWMutex
}

// NewMockOutfitRepository creates a new instance of MockOutfitRepository.
func NewMockOutfitRepository(items ItemRepository) *MockOutfitRepository {
	return &MockOutfitRepository{
		outfits: make(map[string]models.SharedOutfit),
		refs:    make(map[string][]models.OutfitItem),
		items:   items,
	}
}

// Create persists the outfit and its ordered item references.
func (r *MockOutfitRepository) Create(outfit *models.SharedOutfit, itemIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if outfit.ID == "" {
		outfit.ID = uuid.New().String()
	}
	if outfit.CreatedAt.IsZero() {
		outfit.CreatedAt = time.Now()
	}
	r.outfits[outfit.ID] = *outfit

	refs := make([]models.OutfitItem, 0, len(itemIDs))
	for pos, itemID := range itemIDs {
		refs = append(refs, models.OutfitItem{
			OutfitID: outfit.ID,
			Position: pos,
			ItemID:   itemID,
		})
	}
	r.refs[outfit.ID] = refs
	return nil
}

// ListRecent returns the most recently published outfits across all users.
func (r *MockOutfitRepository) ListRecent(limit int) ([]models.SharedOutfit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	outfitList := make([]models.SharedOutfit, 0, len(r.outfits))
	for _, o := range r.outfits {
		outfitList = append(outfitList, o)
	}
	sort.Slice(outfitList, func(i, j int) bool {
		return outfitList[i].CreatedAt.After(outfitList[j].CreatedAt)
	})
	if len(outfitList) > limit {
		outfitList = outfitList[:limit]
	}
	return outfitList, nil
}

// ListByUser returns the most recent outfits published by a single user.
func (r *MockOutfitRepository) ListByUser(userID string, limit int) ([]models.SharedOutfit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	outfitList := make([]models.SharedOutfit, 0)
	for _, o := range r.outfits {
		if o.UserID == userID {
			outfitList = append(outfitList, o)
		}
	}
	sort.Slice(outfitList, func(i, j int) bool {
		return outfitList[i].CreatedAt.After(outfitList[j].CreatedAt)
	})
	if len(outfitList) > limit {
		outfitList = outfitList[:limit]
	}
	return outfitList, nil
}

// ItemsFor expands an outfit's references, dropping items that no longer
// exist in the backing item repository.
func (r *MockOutfitRepository) ItemsFor(outfitID string) ([]models.ClothingItem, error) {
	r.mu.RLock()
	refs := r.refs[outfitID]
	r.mu.RUnlock()

	itemList := make([]models.ClothingItem, 0, len(refs))
	for _, ref := range refs {
		resolved, err := r.items.GetByIDs([]string{ref.ItemID})
		if err != nil {
			return nil, err
		}
		if len(resolved) == 1 {
			itemList = append(itemList, resolved[0])
		}
	}
	return itemList, nil
}
