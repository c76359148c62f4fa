package app

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"

	"skill-alert/internal/delivery/http/handler"
	"skill-alert/internal/delivery/http/middleware"
	"skill-alert/internal/delivery/http/routes"
	"skill-alert/internal/domain/skill"
	"skill-alert/internal/usecase"
	"skill-alert/internal/ws"
)

type App struct {
	Fiber *fiber.App
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.Name})

	registerGlobalMiddleware(f, c)
	registerRoutes(f, c)

	return &App{Fiber: f}
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	app.Use(middleware.NewAccessLogMiddleware(c.Logger.Named("http")).Middleware())
	app.Use(middleware.NewErrorMiddleware(c.Logger.Named("http")).Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	var cachePinger handler.Pinger
	if c.Redis.Available() {
		cachePinger = c.Redis
	}

	reg := &routes.Registry{
		Health:      handler.NewHealthHandler(c.DB, cachePinger),
		Skills:      handler.NewSkillHandler(usecase.NewSkillUsecase(c.Extractor, skill.NewMatcher())),
		Match:       handler.NewMatchHandler(usecase.NewMatchingUsecase(c.Engine)),
		Alerts:      handler.NewAlertHandler(usecase.NewAlertUsecase(c.Alerts, c.Resumes, c.Engine, nil)),
		Preferences: handler.NewPreferenceHandler(usecase.NewPreferenceUsecase(c.Preferences, c.Contacts, nil)),
		WS:          ws.NewHandler(c.Hub, c.Logger.Named("ws")),
	}
	reg.Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
