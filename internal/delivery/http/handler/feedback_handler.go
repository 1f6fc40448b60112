package handler

import (
	"talent-match/internal/delivery/http/dto"
	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/pkg/response"
	"talent-match/internal/prefstore"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// FeedbackHandler records match outcomes into the preference store,
// feeding the external weight-learning pipeline.
type FeedbackHandler struct {
	store prefstore.Store
}

func NewFeedbackHandler(store prefstore.Store) *FeedbackHandler {
	return &FeedbackHandler{store: store}
}

func (h *FeedbackHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/feedback", h.PostFeedback)
}

func (h *FeedbackHandler) PostFeedback(c fiber.Ctx) error {
	var req dto.FeedbackRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "malformed request body", nil, err)
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "invalid user_id", nil, err)
	}
	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "invalid job_id", nil, err)
	}
	if req.Outcome == "" {
		return middleware.NewAppError(fiber.StatusBadRequest, "outcome is required", nil, nil)
	}

	if err := h.store.RecordFeedback(c.Context(), userID, jobID, req.Outcome); err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}
