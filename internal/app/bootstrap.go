package app

import (
	"fmt"
	"strings"

	"expert-match/internal/delivery/http/handler"
	"expert-match/internal/delivery/http/middleware"
	"expert-match/internal/delivery/http/routes"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type App struct {
	Fiber *fiber.App
}

func New(c *Container) *App {
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c)
	registerRoutes(f, c)

	return &App{Fiber: f}
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	httpLog := c.Logger.Named("http")

	accessMw := middleware.NewAccessLogMiddleware(httpLog)
	errMw := middleware.NewErrorMiddleware(httpLog)
	app.Use(accessMw.Middleware())
	app.Use(errMw.Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	var cachePinger handler.Pinger
	if c.Cache != nil {
		cachePinger = c.Cache
	}
	var dbPinger handler.Pinger
	if c.DB != nil {
		dbPinger = c.DB
	}

	registry := routes.NewRegistry(
		handler.NewHealthHandler(dbPinger, cachePinger),
		handler.NewMatchingHandler(c.Recommendations, c.Compatibility, c.Proposals, c.Analytics, c.Lifecycle),
		middleware.NewAuthMiddleware(c.JWT),
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
