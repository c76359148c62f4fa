package handler

import (
	"github.com/gofiber/fiber/v3"

	"skill-alert/internal/pkg/response"
	"skill-alert/internal/usecase"
)

const msgAlertNotFound = "Alert not found"

type AlertHandler struct {
	uc usecase.AlertUsecase
}

func NewAlertHandler(uc usecase.AlertUsecase) *AlertHandler {
	return &AlertHandler{uc: uc}
}

func (h *AlertHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/alerts/:alert_id")
	grp.Get("/cadence", h.Cadence)
	grp.Post("/sent", h.MarkSent)
	grp.Post("/activate", h.Activate)
	grp.Post("/deactivate", h.Deactivate)
	grp.Post("/evaluate", h.Evaluate)
}

func (h *AlertHandler) Cadence(c fiber.Ctx) error {
	id, err := parseUUIDParam(c, "alert_id")
	if err != nil {
		return err
	}
	v, err := h.uc.Cadence(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err, msgAlertNotFound)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, v)
}

func (h *AlertHandler) MarkSent(c fiber.Ctx) error {
	id, err := parseUUIDParam(c, "alert_id")
	if err != nil {
		return err
	}
	v, err := h.uc.MarkSent(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err, msgAlertNotFound)
	}
	return response.Success(c, fiber.StatusOK, "Alert marked as sent", v)
}

func (h *AlertHandler) Activate(c fiber.Ctx) error {
	return h.setActive(c, true)
}

func (h *AlertHandler) Deactivate(c fiber.Ctx) error {
	return h.setActive(c, false)
}

func (h *AlertHandler) setActive(c fiber.Ctx, active bool) error {
	id, err := parseUUIDParam(c, "alert_id")
	if err != nil {
		return err
	}
	v, err := h.uc.SetActive(c.Context(), id, active)
	if err != nil {
		return mapUsecaseError(err, msgAlertNotFound)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, v)
}

func (h *AlertHandler) Evaluate(c fiber.Ctx) error {
	id, err := parseUUIDParam(c, "alert_id")
	if err != nil {
		return err
	}
	res, err := h.uc.Evaluate(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err, "Alert or resume not found")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}
