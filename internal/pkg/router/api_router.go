package router

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/appfolio/showcase-api/internal/pkg/env"
	"github.com/appfolio/showcase-api/internal/pkg/middleware"
)

type ApiRouter struct {
	handlers *Handlers
}

func NewApiRouter(h *Handlers) *ApiRouter {
	return &ApiRouter{handlers: h}
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	hs := h.handlers

	api := app.Group("/api", cors.New(cors.Config{
		AllowOrigins: corsOrigins(),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
	}))

	v1 := api.Group("/v1")

	// Public pages are anonymous and mounted before token verification, so a
	// stale token in the browser cannot hide them.
	public := v1.Group("/public")
	if hs.Limiter != nil {
		public.Use(hs.Limiter)
	}
	public.Get("/u/:username", hs.Public.HandleProfile)
	public.Get("/u/:username/:slug", hs.Public.HandleApplication)

	v1.Use(middleware.BearerAuthMiddleware(hs.Verifier))
	if hs.Limiter != nil {
		v1.Use(hs.Limiter)
	}
	v1.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	users := v1.Group("/users", middleware.RequireAPIAuth)
	users.Get("/me", hs.Users.HandleGetMe)
	users.Post("/onboard", hs.Users.HandleOnboard)

	apps := v1.Group("/apps", middleware.RequireAPIAuth)
	apps.Get("/", hs.Applications.HandleList)
	apps.Post("/", hs.Applications.HandleCreate)
	apps.Get("/:appId", hs.Applications.HandleGet)
	apps.Patch("/:appId/hero", hs.Applications.HandleUpdateHero)
	apps.Patch("/:appId/overview", hs.Applications.HandleUpdateOverview)
	apps.Patch("/:appId/challenges", hs.Applications.HandleUpdateChallenges)
	apps.Patch("/:appId/architecture-diagram", hs.Applications.HandleUpdateArchitectureDiagram)
	apps.Patch("/:appId/architecture-diagram/image", hs.Applications.HandleUpdateArchitectureDiagramImage)
	apps.Patch("/:appId/user-flow-diagram", hs.Applications.HandleUpdateUserFlowDiagram)
	apps.Patch("/:appId/user-flow-text", hs.Applications.HandleUpdateUserFlowText)
	apps.Patch("/:appId/visibility", hs.Applications.HandleUpdateVisibility)
	apps.Post("/:appId/generate-cover", hs.Applications.HandleGenerateCover)

	// Static segments before parameters.
	apps.Post("/:appId/screenshots", hs.Screenshots.HandleAdd)
	apps.Patch("/:appId/screenshots/reorder", hs.Screenshots.HandleReorder)
	apps.Patch("/:appId/screenshots/:screenshotId", hs.Screenshots.HandleUpdate)
	apps.Delete("/:appId/screenshots/:screenshotId", hs.Screenshots.HandleDelete)

	apps.Post("/:appId/walkthrough", hs.Walkthrough.HandleAdd)
	apps.Patch("/:appId/walkthrough/reorder", hs.Walkthrough.HandleReorder)
	apps.Patch("/:appId/walkthrough/:stepId", hs.Walkthrough.HandleUpdate)
	apps.Delete("/:appId/walkthrough/:stepId", hs.Walkthrough.HandleDelete)

	uploads := v1.Group("/uploads", middleware.RequireAPIAuth)
	uploads.Post("/signature", hs.Uploads.HandleSignUpload)

	billing := v1.Group("/billing", middleware.RequireAPIAuth)
	billing.Post("/create-order", hs.Billing.HandleCreateOrder)
	billing.Post("/verify-payment", hs.Billing.HandleVerifyPayment)
}

func corsOrigins() string {
	origins := strings.TrimSpace(env.GetEnv("CORS_ORIGINS", "*"))
	if origins == "" {
		return "*"
	}
	return origins
}
