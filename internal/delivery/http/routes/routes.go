package routes

import (
	"expert-match/internal/delivery/http/handler"
	"expert-match/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	health   *handler.HealthHandler
	matching *handler.MatchingHandler
	auth     *middleware.AuthMiddleware
}

func NewRegistry(health *handler.HealthHandler, matching *handler.MatchingHandler, auth *middleware.AuthMiddleware) *Registry {
	return &Registry{health: health, matching: matching, auth: auth}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerMetrics(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.health == nil {
		return
	}
	r.health.RegisterRoutes(app)
}

func (r *Registry) registerMetrics(app *fiber.App) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.auth, r.matching)
}
