package app

import (
	"context"
	"fmt"
	"strings"

	"talent-match/internal/config"
	"talent-match/internal/delivery/http/handler"
	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/delivery/http/routes"
	"talent-match/internal/pkg/logger"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// Bootstrap builds the container, starts the health prober, and
// returns the app with its cleanup function.
func Bootstrap(cfg config.Config) (*App, func() error, error) {
	log, err := logger.New(cfg.App.LogJSON, cfg.App.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}

	container, err := NewContainer(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})
	registerGlobalMiddleware(f, log)
	registerRoutes(f, container)

	container.Prober.Start(context.Background())

	cleanup := func() error {
		container.Prober.Stop()
		err := container.Close()
		_ = log.Sync()
		return err
	}

	return &App{Fiber: f, Container: container}, cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, log *zap.Logger) {
	app.Use(middleware.NewErrorMiddleware(log).Middleware())
	app.Use(middleware.NewAccessLogMiddleware(log).Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	registry := routes.NewRegistry(
		handler.NewMatchHandler(c.Orchestrator),
		handler.NewFeedbackHandler(c.Store),
		handler.NewHealthHandler(c.Orchestrator),
	)
	registry.Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
