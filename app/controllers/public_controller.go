package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/appfolio/showcase-api/internal/pkg/showcase"
)

// PublicController serves the anonymous profile pages.
type PublicController struct {
	svc *showcase.Service
}

func NewPublicController(svc *showcase.Service) *PublicController {
	return &PublicController{svc: svc}
}

func (pc *PublicController) HandleProfile(c *fiber.Ctx) error {
	page, err := pc.svc.PublicProfile(c.UserContext(), param(c, "username"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(page)
}

func (pc *PublicController) HandleApplication(c *fiber.Ctx) error {
	page, err := pc.svc.PublicApplication(c.UserContext(), param(c, "username"), param(c, "slug"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(page)
}
