package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/appfolio/showcase-api/app/models"
	"github.com/appfolio/showcase-api/internal/pkg/showcase"
)

// ApplicationController serves the owner's showcase editor. Every handler
// resolves the application through the service, so foreign ids look missing.
type ApplicationController struct {
	svc *showcase.Service
}

func NewApplicationController(svc *showcase.Service) *ApplicationController {
	return &ApplicationController{svc: svc}
}

func (ac *ApplicationController) HandleList(c *fiber.Ctx) error {
	list, err := ac.svc.ListApplications(c.UserContext(), subject(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

func (ac *ApplicationController) HandleCreate(c *fiber.Ctx) error {
	var in showcase.CreateApplicationInput
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	app, err := ac.svc.CreateApplication(c.UserContext(), subject(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"app": app})
}

func (ac *ApplicationController) HandleGet(c *fiber.Ctx) error {
	detail, err := ac.svc.GetApplication(c.UserContext(), subject(c), param(c, "appId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(detail)
}

func (ac *ApplicationController) HandleUpdateHero(c *fiber.Ctx) error {
	var in showcase.HeroInput
	return ac.update(c, &in, func() (*models.Application, error) {
		return ac.svc.UpdateHero(c.UserContext(), subject(c), param(c, "appId"), in)
	})
}

func (ac *ApplicationController) HandleUpdateOverview(c *fiber.Ctx) error {
	var in showcase.OverviewInput
	return ac.update(c, &in, func() (*models.Application, error) {
		return ac.svc.UpdateOverview(c.UserContext(), subject(c), param(c, "appId"), in)
	})
}

func (ac *ApplicationController) HandleUpdateChallenges(c *fiber.Ctx) error {
	var in showcase.ChallengesInput
	return ac.update(c, &in, func() (*models.Application, error) {
		return ac.svc.UpdateChallenges(c.UserContext(), subject(c), param(c, "appId"), in)
	})
}

func (ac *ApplicationController) HandleUpdateUserFlowText(c *fiber.Ctx) error {
	var in showcase.UserFlowTextInput
	return ac.update(c, &in, func() (*models.Application, error) {
		return ac.svc.UpdateUserFlowText(c.UserContext(), subject(c), param(c, "appId"), in)
	})
}

func (ac *ApplicationController) HandleUpdateVisibility(c *fiber.Ctx) error {
	var in showcase.VisibilityInput
	return ac.update(c, &in, func() (*models.Application, error) {
		return ac.svc.UpdateVisibility(c.UserContext(), subject(c), param(c, "appId"), in)
	})
}

// Diagram saves only acknowledge; the editor keeps its own copy.
func (ac *ApplicationController) HandleUpdateArchitectureDiagram(c *fiber.Ctx) error {
	var in showcase.DiagramInput
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	if _, err := ac.svc.UpdateArchitectureDiagram(c.UserContext(), subject(c), param(c, "appId"), in); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (ac *ApplicationController) HandleUpdateArchitectureDiagramImage(c *fiber.Ctx) error {
	var in showcase.DiagramImageInput
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	app, err := ac.svc.UpdateArchitectureDiagramImage(c.UserContext(), subject(c), param(c, "appId"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "imageUrl": app.ArchitectureDiagramImageURL})
}

func (ac *ApplicationController) HandleUpdateUserFlowDiagram(c *fiber.Ctx) error {
	var in showcase.DiagramInput
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	if _, err := ac.svc.UpdateUserFlowDiagram(c.UserContext(), subject(c), param(c, "appId"), in); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (ac *ApplicationController) HandleGenerateCover(c *fiber.Ctx) error {
	url, err := ac.svc.GenerateCover(c.UserContext(), subject(c), param(c, "appId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"coverImageUrl": url})
}

func (ac *ApplicationController) update(c *fiber.Ctx, in any, apply func() (*models.Application, error)) error {
	if err := parseBody(c, in); err != nil {
		return writeError(c, err)
	}
	app, err := apply()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"app": app})
}
