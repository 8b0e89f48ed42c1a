package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/appfolio/showcase-api/internal/pkg/apperr"
	"github.com/appfolio/showcase-api/internal/pkg/usercontext"
)

// writeError renders err as {"error": code, "message": msg, ...details}.
// Errors that are not *apperr.Error are logged and hidden behind a 500.
func writeError(c *fiber.Ctx, err error) error {
	ae, ok := apperr.As(err)
	if !ok {
		log.Errorf("[API] %s %s: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   string(apperr.KindInternal),
			"message": "Internal server error",
		})
	}

	status := apperr.HTTPStatus(ae.Kind)
	if status >= fiber.StatusInternalServerError {
		log.Errorf("[API] %s %s: %v", c.Method(), c.Path(), ae)
	}

	body := fiber.Map{}
	for k, v := range ae.Details {
		body[k] = v
	}
	body["error"] = ae.Code
	body["message"] = ae.Message
	if apperr.Retryable(ae.Kind) {
		body["retryable"] = true
	}
	return c.Status(status).JSON(body)
}

// parseBody decodes the JSON request body into dst.
func parseBody(c *fiber.Ctx, dst any) error {
	if len(c.Body()) == 0 {
		return apperr.InvalidArgument("Request body is required")
	}
	if err := c.BodyParser(dst); err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) && fe.Code == fiber.StatusUnprocessableEntity {
			return apperr.InvalidArgument("Content-Type must be application/json")
		}
		return apperr.InvalidArgument("Invalid JSON body")
	}
	return nil
}

func subject(c *fiber.Ctx) string {
	return usercontext.GetSubject(c)
}

func param(c *fiber.Ctx, name string) string {
	return strings.TrimSpace(c.Params(name))
}
