package handler

import (
	"talent-match/internal/backend"
	"talent-match/internal/delivery/http/dto"
	"talent-match/internal/orchestrator"
	"talent-match/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type HealthHandler struct {
	orch *orchestrator.Orchestrator
}

func NewHealthHandler(orch *orchestrator.Orchestrator) *HealthHandler {
	return &HealthHandler{orch: orch}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.GetHealth)
}

func (h *HealthHandler) GetHealth(c fiber.Ctx) error {
	descriptors := h.orch.Backends()

	out := dto.HealthResponse{
		Status:   "ok",
		Backends: make([]dto.BackendStatusResponse, 0, len(descriptors)),
	}
	degraded := 0
	for _, d := range descriptors {
		caps := make([]string, 0, len(d.Capabilities))
		for _, capability := range d.Capabilities {
			caps = append(caps, string(capability))
		}
		out.Backends = append(out.Backends, dto.BackendStatusResponse{
			Name:         d.Name,
			Priority:     d.Priority,
			Capabilities: caps,
			Health:       string(d.Health),
		})
		if d.Health != backend.HealthHealthy {
			degraded++
		}
	}
	if degraded > 0 {
		out.Status = "degraded"
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}
