package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/assignment-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Agents  *handlers.AgentsHandler
	Tickets *handlers.TicketsHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api/v1")

	agents := api.Group("/agents")
	agents.Get("/", cfg.Agents.ListAgents)
	agents.Get("/available", cfg.Agents.ListAvailableAgents)
	agents.Get("/:id", cfg.Agents.GetAgent)

	tickets := api.Group("/tickets")
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/new", cfg.Tickets.ListNewTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Post("/:ticketId/assign/:agentId", cfg.Tickets.AssignAgent)
	tickets.Patch("/:id/status", cfg.Tickets.UpdateStatus)
}
