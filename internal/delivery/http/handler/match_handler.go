package handler

import (
	"github.com/gofiber/fiber/v3"

	"skill-alert/internal/delivery/http/dto"
	"skill-alert/internal/delivery/http/middleware"
	"skill-alert/internal/pkg/response"
	"skill-alert/internal/usecase"
)

type MatchHandler struct {
	uc usecase.MatchingUsecase
}

func NewMatchHandler(uc usecase.MatchingUsecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/match", h.Compute)
}

func (h *MatchHandler) Compute(c fiber.Ctx) error {
	var req dto.MatchRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, response.MessageBadRequest, nil, err)
	}

	res, err := h.uc.Evaluate(req.ToDomain())
	if err != nil {
		return mapUsecaseError(err, response.MessageNotFound)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}
