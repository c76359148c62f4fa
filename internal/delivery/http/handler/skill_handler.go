package handler

import (
	"github.com/gofiber/fiber/v3"

	"skill-alert/internal/delivery/http/dto"
	"skill-alert/internal/delivery/http/middleware"
	"skill-alert/internal/pkg/response"
	"skill-alert/internal/usecase"
)

type SkillHandler struct {
	uc usecase.SkillUsecase
}

func NewSkillHandler(uc usecase.SkillUsecase) *SkillHandler {
	return &SkillHandler{uc: uc}
}

func (h *SkillHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/skills")
	grp.Get("/", h.List)
	grp.Post("/extract", h.Extract)
	grp.Post("/compare", h.Compare)
}

func (h *SkillHandler) List(c fiber.Ctx) error {
	tokens := h.uc.ListSkills()
	res := make([]dto.SkillResponse, 0, len(tokens))
	for _, t := range tokens {
		res = append(res, dto.SkillResponse{Name: t.Name, Category: t.Category})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *SkillHandler) Extract(c fiber.Ctx) error {
	var req dto.ExtractRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, response.MessageBadRequest, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.ExtractResponse{Skills: h.uc.Extract(req.Text)})
}

func (h *SkillHandler) Compare(c fiber.Ctx) error {
	var req dto.CompareRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, response.MessageBadRequest, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, h.uc.Compare(req.ResumeText, req.RequiredText))
}
