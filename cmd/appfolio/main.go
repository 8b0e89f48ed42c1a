package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/appfolio/showcase-api/internal/pkg/bootstrap"
	"github.com/appfolio/showcase-api/internal/pkg/env"
	"github.com/appfolio/showcase-api/internal/pkg/router"
)

const shutdownTimeout = 10 * time.Second

func main() {
	env.SetupEnvFile()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := bootstrap.New(ctx)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	app := NewApplication(container)
	addr := fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "0.0.0.0"), env.GetEnv("APP_PORT", "4000"))

	go func() {
		if err := app.Listen(addr); err != nil {
			log.Printf("server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Printf("shutdown: %v", err)
	}
	if err := container.Close(); err != nil {
		log.Printf("close: %v", err)
	}
}

func NewApplication(container *bootstrap.Container) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "appfolio-api",
		BodyLimit: 2 * 1024 * 1024,
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	router.InstallRouter(app, container.Handlers)

	return app
}
