package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/appfolio/showcase-api/internal/pkg/identity"
	"github.com/appfolio/showcase-api/internal/pkg/usercontext"
)

// BearerAuthMiddleware verifies the Authorization bearer token and stores the
// caller's subject in the user context. Requests without a token continue as
// anonymous; RequireAPIAuth rejects them on protected routes.
func BearerAuthMiddleware(verifier identity.Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearerToken(c)
		if token == "" {
			usercontext.Set(c, usercontext.UserContext{IsLoggedIn: false})
			return c.Next()
		}

		id, err := verifier.Verify(c.UserContext(), token)
		if err != nil {
			if !errors.Is(err, identity.ErrInvalidToken) {
				log.Errorf("[Auth] token verification failed: %v", err)
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "unauthorized",
				"message": "Invalid or expired token",
			})
		}

		usercontext.Set(c, usercontext.UserContext{
			Subject:    id.Subject,
			Email:      id.Email,
			IsLoggedIn: true,
		})
		return c.Next()
	}
}

func extractBearerToken(c *fiber.Ctx) string {
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
