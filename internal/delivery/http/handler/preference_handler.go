package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"skill-alert/internal/delivery/http/dto"
	"skill-alert/internal/delivery/http/middleware"
	"skill-alert/internal/domain/notification"
	"skill-alert/internal/pkg/response"
	"skill-alert/internal/usecase"
)

const msgUserNotFound = "User not found"

type PreferenceHandler struct {
	uc usecase.PreferenceUsecase
}

func NewPreferenceHandler(uc usecase.PreferenceUsecase) *PreferenceHandler {
	return &PreferenceHandler{uc: uc}
}

func (h *PreferenceHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/users/:user_id")
	grp.Get("/preferences", h.Get)
	grp.Put("/preferences", h.Update)
	grp.Post("/preferences/opt-in", h.OptIn)
	grp.Post("/preferences/opt-out", h.OptOut)
	grp.Get("/preferences/eligibility", h.Eligibility)
}

func (h *PreferenceHandler) Get(c fiber.Ctx) error {
	userID, err := parseUUIDParam(c, "user_id")
	if err != nil {
		return err
	}
	p, err := h.uc.Get(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err, msgUserNotFound)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewPreferenceResponse(p))
}

func (h *PreferenceHandler) Update(c fiber.Ctx) error {
	userID, err := parseUUIDParam(c, "user_id")
	if err != nil {
		return err
	}
	var req notification.Update
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, response.MessageBadRequest, nil, err)
	}
	p, err := h.uc.Update(c.Context(), userID, req)
	if err != nil {
		return mapUsecaseError(err, msgUserNotFound)
	}
	return response.Success(c, fiber.StatusOK, "Preferences updated", dto.NewPreferenceResponse(p))
}

func (h *PreferenceHandler) OptIn(c fiber.Ctx) error {
	userID, err := parseUUIDParam(c, "user_id")
	if err != nil {
		return err
	}
	p, err := h.uc.OptIn(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err, msgUserNotFound)
	}
	return response.Success(c, fiber.StatusOK, "Opted in", dto.NewPreferenceResponse(p))
}

func (h *PreferenceHandler) OptOut(c fiber.Ctx) error {
	userID, err := parseUUIDParam(c, "user_id")
	if err != nil {
		return err
	}
	p, err := h.uc.OptOut(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err, msgUserNotFound)
	}
	return response.Success(c, fiber.StatusOK, "Opted out", dto.NewPreferenceResponse(p))
}

func (h *PreferenceHandler) Eligibility(c fiber.Ctx) error {
	userID, err := parseUUIDParam(c, "user_id")
	if err != nil {
		return err
	}

	var score *float64
	if raw := strings.TrimSpace(c.Query("score")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "score must be a number", nil, err)
		}
		score = &v
	}

	out, err := h.uc.Eligibility(c.Context(), userID, score)
	if err != nil {
		return mapUsecaseError(err, msgUserNotFound)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}
