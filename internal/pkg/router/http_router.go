package router

import (
	"context"
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/monitor"

	"github.com/appfolio/showcase-api/internal/pkg/env"
	"github.com/appfolio/showcase-api/internal/pkg/metrics"
)

// HttpRouter mounts the operational endpoints: health, metrics, the Fiber
// monitor and the API docs.
type HttpRouter struct {
	handlers *Handlers
}

func NewHttpRouter(h *Handlers) *HttpRouter {
	return &HttpRouter{handlers: h}
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	app.Get("/health", h.health)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	if password := env.GetEnv("MONITOR_PASSWORD", ""); password != "" {
		app.Get("/monitor", basicauth.New(basicauth.Config{
			Users: map[string]string{
				env.GetEnv("MONITOR_USER", "admin"): password,
			},
		}), monitor.New(monitor.Config{Title: "AppFolio API"}))
	}

	if docs := h.handlers.DocsFile; docs != "" {
		if _, err := os.Stat(docs); err != nil {
			log.Warnf("[Router] API docs not mounted: %v", err)
		} else {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/docs/",
				FilePath: docs,
				Path:     "api",
				Title:    "AppFolio API",
			}))
		}
	}
}

func (h HttpRouter) health(c *fiber.Ctx) error {
	if h.handlers.Health != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := h.handlers.Health(ctx); err != nil {
			log.Warnf("[Router] health check failed: %v", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"ok": false})
		}
	}
	return c.JSON(fiber.Map{"ok": true})
}
