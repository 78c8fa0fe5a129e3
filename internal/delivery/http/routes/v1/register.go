package v1

import (
	"expert-match/internal/delivery/http/handler"
	"expert-match/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

// Register mounts the matching endpoints behind authentication. The handler
// applies the operator check per route.
func Register(r fiber.Router, auth *middleware.AuthMiddleware, matching *handler.MatchingHandler) {
	if r == nil || auth == nil || matching == nil {
		return
	}

	protected := r.Group("", auth.Middleware())
	matching.RegisterRoutes(protected, auth.RequireOperator())
}
