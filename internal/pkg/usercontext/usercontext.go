package usercontext

import "github.com/gofiber/fiber/v2"

// UserContext represents the authenticated caller of a request
type UserContext struct {
	Subject    string `json:"subject"`
	Email      string `json:"email,omitempty"`
	IsLoggedIn bool   `json:"is_logged_in"`
}

// Set stores the user context and the legacy locals on c
func Set(c *fiber.Ctx, uc UserContext) {
	c.Locals(KeyUserContext, uc)
	c.Locals(KeyFromProtected, uc.IsLoggedIn)
	c.Locals(KeySubject, uc.Subject)
}

// GetUserContext retrieves the user context from fiber context
// Returns a default anonymous context if none is set
func GetUserContext(c *fiber.Ctx) UserContext {
	if uc, ok := c.Locals(KeyUserContext).(UserContext); ok {
		return uc
	}
	return UserContext{IsLoggedIn: false}
}

// IsLoggedIn checks if the current caller presented a valid token
func IsLoggedIn(c *fiber.Ctx) bool {
	return GetUserContext(c).IsLoggedIn
}

// GetSubject returns the caller's subject, or empty string if anonymous
func GetSubject(c *fiber.Ctx) string {
	return GetUserContext(c).Subject
}

// GetEmail returns the email claim of the caller's token
func GetEmail(c *fiber.Ctx) string {
	return GetUserContext(c).Email
}
