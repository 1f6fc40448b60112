package routes

import (
	"talent-match/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	match    *handler.MatchHandler
	feedback *handler.FeedbackHandler
	health   *handler.HealthHandler
}

func NewRegistry(match *handler.MatchHandler, feedback *handler.FeedbackHandler, health *handler.HealthHandler) *Registry {
	return &Registry{match: match, feedback: feedback, health: health}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.health.RegisterRoutes(app)

	api := app.Group("/api")
	v1 := api.Group("/v1")
	r.match.RegisterRoutes(v1)
	r.feedback.RegisterRoutes(v1)
}
