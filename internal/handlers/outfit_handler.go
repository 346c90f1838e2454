package handlers

import (
	"log"

	"wardrobe/internal/middleware"
	"wardrobe/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OutfitHandler handles HTTP requests for shared outfits.
type OutfitHandler struct {
	service *services.OutfitService
}

// NewOutfitHandler creates a new OutfitHandler.
func NewOutfitHandler(service *services.OutfitService) *OutfitHandler {
	return &OutfitHandler{
		service: service,
	}
}

// RegisterPublicRoutes registers the unauthenticated global listing.
func (h *OutfitHandler) RegisterPublicRoutes(router fiber.Router) {
	router.Get("/shared", h.HandleListShared)
}

// RegisterRoutes registers the authenticated outfit routes.
func (h *OutfitHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/shared/mine", h.HandleListMine)
	router.Post("/shared", h.HandleCreateShared)
}

// HandleListShared returns the most recent shared outfits across all users.
func (h *OutfitHandler) HandleListShared(c *fiber.Ctx) error {
	outfits, err := h.service.ListRecent()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(outfits)
}

// HandleListMine returns the caller's own shared outfits.
func (h *OutfitHandler) HandleListMine(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	outfits, err := h.service.ListMine(user.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(outfits)
}

// CreateSharedRequest represents the request body for publishing an outfit.
type CreateSharedRequest struct {
	ItemIDs []string `json:"itemIds"`
}

// HandleCreateShared publishes a new shared outfit from a list of item ids.
func (h *OutfitHandler) HandleCreateShared(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req CreateSharedRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create shared request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "itemIds must be a non-empty list",
		})
	}

	id, err := h.service.Create(user, req.ItemIDs)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id": id,
	})
}
