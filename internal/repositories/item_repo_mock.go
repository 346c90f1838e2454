package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"wardrobe/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MockItemRepository is an in-memory implementation of ItemRepository.
type MockItemRepository struct {
	items map[string]models.ClothingItem
	mu    sync.RWMutex
}

// NewMockItemRepository creates a new instance of MockItemRepository.
func NewMockItemRepository() *MockItemRepository {
	return &MockItemRepository{
		items: make(map[string]models.ClothingItem),
	}
}

// Create adds a new item.
func (r *MockItemRepository) Create(item *models.ClothingItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	r.items[item.ID] = *item
	return nil
}

// GetByUser returns all items owned by a user, newest first.
func (r *MockItemRepository) GetByUser(userID string) ([]models.ClothingItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	itemList := make([]models.ClothingItem, 0)
	for _, item := range r.items {
		if item.UserID == userID {
			itemList = append(itemList, item)
		}
	}
	sort.Slice(itemList, func(i, j int) bool {
		return itemList[i].CreatedAt.After(itemList[j].CreatedAt)
	})
	return itemList, nil
}

// GetByIDForUser returns an item by ID if it is owned by the given user.
func (r *MockItemRepository) GetByIDForUser(id, userID string) (*models.ClothingItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok || item.UserID != userID {
		return nil, fmt.Errorf("item %s not found for user %s: %w", id, userID, gorm.ErrRecordNotFound)
	}
	return &item, nil
}

// GetByIDs returns the items whose IDs exist; missing IDs are skipped.
func (r *MockItemRepository) GetByIDs(ids []string) ([]models.ClothingItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	itemList := make([]models.ClothingItem, 0, len(ids))
	for _, id := range ids {
		if item, ok := r.items[id]; ok {
			itemList = append(itemList, item)
		}
	}
	return itemList, nil
}

// Delete removes an item by its ID.
func (r *MockItemRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("item %s not found for deletion: %w", id, gorm.ErrRecordNotFound)
	}
	delete(r.items, id)
	return nil
}
