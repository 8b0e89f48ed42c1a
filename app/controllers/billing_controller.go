package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/appfolio/showcase-api/app/models"
	"github.com/appfolio/showcase-api/internal/pkg/billing"
)

// AccountResolver loads the onboarded account of a verified subject.
type AccountResolver interface {
	ResolveAccount(ctx context.Context, subject string) (*models.Account, error)
}

// BillingController runs the PRO upgrade checkout: create an order with the
// payment provider, then verify the signed payment the checkout returns.
type BillingController struct {
	billing  *billing.Service
	accounts AccountResolver
}

func NewBillingController(svc *billing.Service, accounts AccountResolver) *BillingController {
	return &BillingController{billing: svc, accounts: accounts}
}

func (bc *BillingController) HandleCreateOrder(c *fiber.Ctx) error {
	account, err := bc.accounts.ResolveAccount(c.UserContext(), subject(c))
	if err != nil {
		return writeError(c, err)
	}
	res, err := bc.billing.CreateOrder(c.UserContext(), account)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

func (bc *BillingController) HandleVerifyPayment(c *fiber.Ctx) error {
	account, err := bc.accounts.ResolveAccount(c.UserContext(), subject(c))
	if err != nil {
		return writeError(c, err)
	}

	var in billing.VerifyInput
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	res, err := bc.billing.VerifyPayment(c.UserContext(), account, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "plan": res.Plan})
}
