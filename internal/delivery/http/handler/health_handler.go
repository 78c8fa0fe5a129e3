package handler

import (
	"context"
	"time"

	"expert-match/internal/delivery/http/dto"
	"expert-match/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

const (
	healthUp   = "up"
	healthDown = "down"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports 503 only when the database is down; a missing cache
// degrades recommendations to uncached reads.
type HealthHandler struct {
	db      Pinger
	cache   Pinger
	timeout time.Duration
}

func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, timeout: 2 * time.Second}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
	defer cancel()

	out := dto.HealthResponse{
		Database: probe(ctx, h.db),
		Cache:    probe(ctx, h.cache),
	}

	if out.Database != healthUp {
		return response.Error(c, fiber.StatusServiceUnavailable, "database unavailable", out)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func probe(ctx context.Context, p Pinger) string {
	if p == nil {
		return healthDown
	}
	if err := p.Ping(ctx); err != nil {
		return healthDown
	}
	return healthUp
}
