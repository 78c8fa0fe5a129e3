package routes

import (
	"expert-match/internal/delivery/http/handler"
	"expert-match/internal/delivery/http/middleware"
	v1 "expert-match/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
)

func RegisterV1(r fiber.Router, auth *middleware.AuthMiddleware, matching *handler.MatchingHandler) {
	if r == nil {
		return
	}

	v1.Register(r, auth, matching)
}
