package handlers

import (
	"errors"
	"log"

	"wardrobe/internal/apperrors"

	"github.com/gofiber/fiber/v2"
)

// respondError maps a service error onto the wire: typed business errors
// become their status with `{"error": message}`, everything else becomes an
// opaque 500 with the cause logged.
func respondError(c *fiber.Ctx, err error) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return c.Status(appErr.Status).JSON(fiber.Map{
			"error": appErr.Message,
		})
	}
	log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal server error",
	})
}
