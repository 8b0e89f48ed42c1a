package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/appfolio/showcase-api/internal/pkg/usercontext"
)

// RequireAPIAuth ensures a verified caller and returns JSON 401 otherwise.
func RequireAPIAuth(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) || usercontext.GetSubject(c) == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "Unauthorized",
		})
	}
	return c.Next()
}
