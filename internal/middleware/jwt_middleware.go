package middleware

import (
	"log"
	"strings"

	"wardrobe/internal/apperrors"
	"wardrobe/internal/models"
	"wardrobe/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserKey is the Locals key under which the authenticated user is stored.
const UserKey = "user"

// AuthRequired is a Fiber middleware that resolves the bearer token into a
// user and attaches it to the request. With demo mode enabled, requests
// without an Authorization header are served as a deterministic demo user
// instead of being rejected; a header that is present is always verified.
func AuthRequired(authService *services.AuthService, demoMode bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			if demoMode {
				user, err := authService.EnsureDemoUser()
				if err != nil {
					log.Printf("Failed to provision demo user: %v", err)
					return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
						"error": "internal server error",
					})
				}
				c.Locals(UserKey, user)
				return c.Next()
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "authorization header format must be 'Bearer <token>'",
			})
		}

		user, err := authService.ValidateToken(parts[1])
		if err != nil {
			log.Printf("Token validation failed: %v", err)
			return c.Status(apperrors.StatusOf(err)).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		c.Locals(UserKey, user)
		return c.Next()
	}
}

// CurrentUser returns the user attached by AuthRequired, or nil when the
// route is not guarded.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(UserKey).(*models.User)
	return user
}
