package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/appfolio/showcase-api/app/models"
	"github.com/appfolio/showcase-api/internal/pkg/showcase"
)

type WalkthroughController struct {
	svc *showcase.Service
}

func NewWalkthroughController(svc *showcase.Service) *WalkthroughController {
	return &WalkthroughController{svc: svc}
}

func (wc *WalkthroughController) HandleAdd(c *fiber.Ctx) error {
	var in showcase.StepInput
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	steps, err := wc.svc.AddStep(c.UserContext(), subject(c), param(c, "appId"), in)
	return wc.respond(c, steps, err)
}

func (wc *WalkthroughController) HandleUpdate(c *fiber.Ctx) error {
	var in showcase.StepPatch
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	steps, err := wc.svc.UpdateStep(c.UserContext(), subject(c), param(c, "appId"), param(c, "stepId"), in)
	return wc.respond(c, steps, err)
}

func (wc *WalkthroughController) HandleDelete(c *fiber.Ctx) error {
	steps, err := wc.svc.DeleteStep(c.UserContext(), subject(c), param(c, "appId"), param(c, "stepId"))
	return wc.respond(c, steps, err)
}

func (wc *WalkthroughController) HandleReorder(c *fiber.Ctx) error {
	var in showcase.ReorderStepsInput
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	steps, err := wc.svc.ReorderSteps(c.UserContext(), subject(c), param(c, "appId"), in)
	return wc.respond(c, steps, err)
}

func (wc *WalkthroughController) respond(c *fiber.Ctx, steps []models.WalkthroughStep, err error) error {
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"walkthrough": steps})
}
