package router

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/appfolio/showcase-api/app/controllers"
	"github.com/appfolio/showcase-api/internal/pkg/identity"
)

type Router interface {
	InstallRouter(app *fiber.App)
}

// Handlers is everything the routers mount. Limiter, Health and DocsFile are
// optional.
type Handlers struct {
	Users        *controllers.UserController
	Applications *controllers.ApplicationController
	Screenshots  *controllers.ScreenshotController
	Walkthrough  *controllers.WalkthroughController
	Public       *controllers.PublicController
	Uploads      *controllers.UploadController
	Billing      *controllers.BillingController

	Verifier identity.Verifier
	Limiter  fiber.Handler
	Health   func(ctx context.Context) error
	DocsFile string
}

func InstallRouter(app *fiber.App, h *Handlers) {
	// Operational routes first so /health and /metrics bypass auth and limits.
	setup(app, NewHttpRouter(h), NewApiRouter(h))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
