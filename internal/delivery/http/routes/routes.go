package routes

import (
	"github.com/gofiber/fiber/v3"

	"skill-alert/internal/delivery/http/handler"
	"skill-alert/internal/ws"
)

type Registry struct {
	Health      *handler.HealthHandler
	Skills      *handler.SkillHandler
	Match       *handler.MatchHandler
	Alerts      *handler.AlertHandler
	Preferences *handler.PreferenceHandler
	WS          *ws.Handler
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil || r == nil {
		return
	}

	if r.Health != nil {
		r.Health.RegisterRoutes(app)
	}
	r.registerAPI(app)
	if r.WS != nil {
		app.Get("/ws/matches", r.WS.HandleMatchesWS)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	v1 := app.Group("/api").Group("/v1")

	if r.Skills != nil {
		r.Skills.RegisterRoutes(v1)
	}
	if r.Match != nil {
		r.Match.RegisterRoutes(v1)
	}
	if r.Alerts != nil {
		r.Alerts.RegisterRoutes(v1)
	}
	if r.Preferences != nil {
		r.Preferences.RegisterRoutes(v1)
	}
}
