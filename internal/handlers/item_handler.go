package handlers

import (
	"log"
	"os"

	"wardrobe/internal/middleware"
	"wardrobe/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ItemHandler handles HTTP requests for the clothing item catalog.
type ItemHandler struct {
	service *services.ItemService
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(service *services.ItemService) *ItemHandler {
	return &ItemHandler{
		service: service,
	}
}

// RegisterRoutes registers the authenticated item routes.
func (h *ItemHandler) RegisterRoutes(router fiber.Router) {
	itemRoutes := router.Group("/items")
	itemRoutes.Get("/", h.HandleListItems)
	itemRoutes.Post("/", h.HandleUploadItem)
	itemRoutes.Delete("/:id", h.HandleDeleteItem)
}

// RegisterPublicRoutes registers the unauthenticated upload-serving route.
// Anyone who knows a stored filename may fetch it; there is no ownership
// check on image reads.
func (h *ItemHandler) RegisterPublicRoutes(router fiber.Router) {
	router.Get("/uploads/:filename", h.HandleServeUpload)
}

// HandleListItems returns the caller's items, newest first.
func (h *ItemHandler) HandleListItems(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	items, err := h.service.List(user.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

// HandleUploadItem accepts a multipart upload: a required "file" part plus
// optional category, color, item_type, and vibes fields. Vibes may arrive as
// a repeated field, a comma-joined string, or both.
func (h *ItemHandler) HandleUploadItem(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	fileHeader, err := c.FormFile("file")
	if err != nil || fileHeader.Filename == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "no file uploaded",
		})
	}
	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("Error opening uploaded file: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "could not read uploaded file",
		})
	}
	defer file.Close()

	var vibes []string
	if form, err := c.MultipartForm(); err == nil {
		vibes = form.Value["vibes"]
	}

	item, err := h.service.Upload(user, services.UploadInput{
		Filename: fileHeader.Filename,
		File:     file,
		Category: c.FormValue("category"),
		Color:    c.FormValue("color"),
		ItemType: c.FormValue("item_type"),
		Vibes:    vibes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleDeleteItem deletes one of the caller's items.
func (h *ItemHandler) HandleDeleteItem(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	if err := h.service.Delete(user.ID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"status": "deleted",
	})
}

// HandleServeUpload serves a stored image from the upload directory.
func (h *ItemHandler) HandleServeUpload(c *fiber.Ctx) error {
	path := h.service.ResolvePath(c.Params("filename"))
	if _, err := os.Stat(path); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "file not found",
		})
	}
	return c.SendFile(path)
}
