package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/triage-dashboard/internal/api/http/handlers"
	"github.com/spec-kit/triage-dashboard/internal/auth"
	"github.com/spec-kit/triage-dashboard/internal/notify"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health          *handlers.HealthHandler
	Auth            *handlers.AuthHandler
	Webhooks        *handlers.WebhooksHandler
	Tickets         *handlers.TicketsHandler
	Workspace       *handlers.WorkspaceHandler
	Stats           *handlers.StatsHandler
	Export          *handlers.ExportHandler
	Hub             *notify.Hub
	AdminMiddleware *auth.AdminMiddleware
}

// RegisterRoutes wires HTTP routes. Intake webhooks and health probes stay
// open; everything the dashboard reads or mutates requires an admin token.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/register", cfg.Auth.Register)

	webhooks := app.Group("/webhooks")
	webhooks.Post("/whatsapp", cfg.Webhooks.WhatsApp)
	webhooks.Post("/email", cfg.Webhooks.Email)
	webhooks.Post("/website", cfg.Webhooks.Website)

	tickets := app.Group("/tickets", cfg.AdminMiddleware.Handle)
	tickets.Get("/", cfg.Tickets.List)
	tickets.Get("/stats", cfg.Stats.Stats)
	tickets.Get("/incidents/active", cfg.Tickets.ActiveIncidents)

	workspace := tickets.Group("/workspace")
	workspace.Get("/", cfg.Workspace.Snapshot)
	workspace.Get("/currently-solving", cfg.Workspace.CurrentlySolving)
	workspace.Get("/solved-history", cfg.Workspace.SolvedHistory)
	workspace.Get("/performance", cfg.Workspace.Performance)

	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Patch("/:id/status", cfg.Tickets.PatchStatus)
	tickets.Patch("/:id/department", cfg.Tickets.PatchDepartment)
	tickets.Patch("/:id/notes", cfg.Tickets.PatchNotes)
	tickets.Patch("/:id/assign", cfg.Tickets.Assign)

	analytics := app.Group("/analytics", cfg.AdminMiddleware.Handle)
	analytics.Get("/export", cfg.Export.Export)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(cfg.Hub.Handle))
}
