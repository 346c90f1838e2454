package services_test

import (
	"strings"
	"testing"

	"wardrobe/internal/apperrors"
	"wardrobe/internal/models"
	"wardrobe/internal/repositories"
	"wardrobe/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func newOutfitFixture(t *testing.T) (*services.OutfitService, *services.ItemService) {
	t.Helper()
	itemRepo := repositories.NewMockItemRepository()
	outfitRepo := repositories.NewMockOutfitRepository(itemRepo)
	itemService := services.NewItemService(itemRepo, t.TempDir(), nil)
	return services.NewOutfitService(outfitRepo, itemRepo, nil), itemService
}

func mustUpload(t *testing.T, itemService *services.ItemService, user *models.User, filename string) *models.ItemResponse {
	t.Helper()
	item, err := itemService.Upload(user, services.UploadInput{
		Filename: filename,
		File:     strings.NewReader("fake image bytes"),
	})
	assert.NoError(t, err)
	return item
}

func TestOutfitService_CreateDropsUnresolvedIDs(t *testing.T) {
	outfitService, itemService := newOutfitFixture(t)
	alice := &models.User{ID: "user-1", Username: "alice"}

	first := mustUpload(t, itemService, alice, "shirt.png")
	second := mustUpload(t, itemService, alice, "jeans.png")

	// One reference points at a record that never existed
	id, err := outfitService.Create(alice, []string{first.ID, "no-such-item", second.ID})
	assert.NoError(t, err)
	assert.NotEmpty(t, id)

	outfits, err := outfitService.ListRecent()
	assert.NoError(t, err)
	assert.Len(t, outfits, 1)
	assert.Equal(t, id, outfits[0].ID)
	assert.Equal(t, alice.ID, outfits[0].UserID)
	assert.Len(t, outfits[0].Items, 2, "only resolvable items are stored")
}

func TestOutfitService_CreateValidation(t *testing.T) {
	outfitService, _ := newOutfitFixture(t)
	alice := &models.User{ID: "user-1"}

	_, err := outfitService.Create(alice, nil)
	assert.Error(t, err)
	assert.Equal(t, fiber.StatusBadRequest, apperrors.StatusOf(err))

	_, err = outfitService.Create(alice, []string{})
	assert.Error(t, err)
	assert.Equal(t, fiber.StatusBadRequest, apperrors.StatusOf(err))

	// All referenced items are unresolvable
	_, err = outfitService.Create(alice, []string{"ghost-1", "ghost-2"})
	assert.Error(t, err)
	assert.Equal(t, fiber.StatusBadRequest, apperrors.StatusOf(err))
}

func TestOutfitService_CreateAllowsForeignItems(t *testing.T) {
	outfitService, itemService := newOutfitFixture(t)
	alice := &models.User{ID: "user-1"}
	bob := &models.User{ID: "user-2"}

	bobsItem := mustUpload(t, itemService, bob, "scarf.png")

	// Publishing a composition of someone else's item is allowed
	id, err := outfitService.Create(alice, []string{bobsItem.ID})
	assert.NoError(t, err)

	outfits, err := outfitService.ListRecent()
	assert.NoError(t, err)
	assert.Len(t, outfits, 1)
	assert.Equal(t, id, outfits[0].ID)
	assert.Equal(t, alice.ID, outfits[0].UserID)
	assert.Len(t, outfits[0].Items, 1)
}

func TestOutfitService_ListMineFiltersByOwner(t *testing.T) {
	outfitService, itemService := newOutfitFixture(t)
	alice := &models.User{ID: "user-1"}
	bob := &models.User{ID: "user-2"}

	aliceItem := mustUpload(t, itemService, alice, "shirt.png")
	bobItem := mustUpload(t, itemService, bob, "scarf.png")

	_, err := outfitService.Create(alice, []string{aliceItem.ID})
	assert.NoError(t, err)
	_, err = outfitService.Create(bob, []string{bobItem.ID})
	assert.NoError(t, err)

	all, err := outfitService.ListRecent()
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := outfitService.ListMine(alice.ID)
	assert.NoError(t, err)
	assert.Len(t, mine, 1)
	assert.Equal(t, alice.ID, mine[0].UserID)
}

func TestOutfitService_StaleReferencesDropOnRead(t *testing.T) {
	outfitService, itemService := newOutfitFixture(t)
	alice := &models.User{ID: "user-1"}

	first := mustUpload(t, itemService, alice, "shirt.png")
	second := mustUpload(t, itemService, alice, "jeans.png")

	_, err := outfitService.Create(alice, []string{first.ID, second.ID})
	assert.NoError(t, err)

	// Deleting a referenced item leaves the outfit readable with the stale
	// reference silently dropped
	assert.NoError(t, itemService.Delete(alice.ID, first.ID))

	outfits, err := outfitService.ListRecent()
	assert.NoError(t, err)
	assert.Len(t, outfits, 1)
	assert.Len(t, outfits[0].Items, 1)
	assert.Equal(t, second.ID, outfits[0].Items[0].ID)

	// An outfit whose items are all gone still lists, just empty
	assert.NoError(t, itemService.Delete(alice.ID, second.ID))
	outfits, err = outfitService.ListRecent()
	assert.NoError(t, err)
	assert.Len(t, outfits, 1)
	assert.NotNil(t, outfits[0].Items)
	assert.Empty(t, outfits[0].Items)
}
