package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/appfolio/showcase-api/internal/pkg/showcase"
	"github.com/appfolio/showcase-api/internal/pkg/usercontext"
)

// UserController serves the caller's own account.
type UserController struct {
	svc *showcase.Service
}

func NewUserController(svc *showcase.Service) *UserController {
	return &UserController{svc: svc}
}

// HandleGetMe returns 404 {"onboarded": false} until the caller picked a username.
func (uc *UserController) HandleGetMe(c *fiber.Ctx) error {
	me, err := uc.svc.GetMe(c.UserContext(), subject(c))
	if err != nil {
		return writeError(c, err)
	}
	if !me.Onboarded {
		return c.Status(fiber.StatusNotFound).JSON(me)
	}
	return c.JSON(me)
}

func (uc *UserController) HandleOnboard(c *fiber.Ctx) error {
	var in showcase.OnboardInput
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	if in.Email == "" {
		in.Email = usercontext.GetEmail(c)
	}

	account, err := uc.svc.Onboard(c.UserContext(), subject(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": account})
}
