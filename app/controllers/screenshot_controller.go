package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/appfolio/showcase-api/app/models"
	"github.com/appfolio/showcase-api/internal/pkg/showcase"
)

// ScreenshotController edits the ordered screenshot gallery. Every response
// carries the full, dense list.
type ScreenshotController struct {
	svc *showcase.Service
}

func NewScreenshotController(svc *showcase.Service) *ScreenshotController {
	return &ScreenshotController{svc: svc}
}

func (sc *ScreenshotController) HandleAdd(c *fiber.Ctx) error {
	var in showcase.ScreenshotInput
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	shots, err := sc.svc.AddScreenshot(c.UserContext(), subject(c), param(c, "appId"), in)
	return sc.respond(c, shots, err)
}

func (sc *ScreenshotController) HandleUpdate(c *fiber.Ctx) error {
	var in showcase.ScreenshotPatch
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	shots, err := sc.svc.UpdateScreenshot(c.UserContext(), subject(c), param(c, "appId"), param(c, "screenshotId"), in)
	return sc.respond(c, shots, err)
}

func (sc *ScreenshotController) HandleDelete(c *fiber.Ctx) error {
	shots, err := sc.svc.DeleteScreenshot(c.UserContext(), subject(c), param(c, "appId"), param(c, "screenshotId"))
	return sc.respond(c, shots, err)
}

func (sc *ScreenshotController) HandleReorder(c *fiber.Ctx) error {
	var in showcase.ReorderScreenshotsInput
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	shots, err := sc.svc.ReorderScreenshots(c.UserContext(), subject(c), param(c, "appId"), in)
	return sc.respond(c, shots, err)
}

func (sc *ScreenshotController) respond(c *fiber.Ctx, shots []models.Screenshot, err error) error {
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"screenshots": shots})
}
