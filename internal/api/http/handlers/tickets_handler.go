package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/assignment-service/internal/api/dto"
	"github.com/spec-kit/assignment-service/internal/domain"
	"github.com/spec-kit/assignment-service/internal/service"
	apperrors "github.com/spec-kit/assignment-service/pkg/util"
)

// TicketsHandler exposes the ticket query surface and the assignment trigger.
type TicketsHandler struct {
	tickets     *service.TicketService
	assignments *service.AssignmentService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, assignmentService *service.AssignmentService) *TicketsHandler {
	return &TicketsHandler{tickets: ticketService, assignments: assignmentService}
}

// ListTickets GET /api/v1/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	tickets, err := h.tickets.ListTickets(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
}

// ListNewTickets GET /api/v1/tickets/new lists tickets still in OPEN status.
func (h *TicketsHandler) ListNewTickets(c *fiber.Ctx) error {
	tickets, err := h.tickets.ListOpenTickets(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
}

// GetTicket GET /api/v1/tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticketID, err := parseTicketID(c)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.GetTicket(c.UserContext(), ticketID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// AssignAgent POST /api/v1/tickets/:ticketId/assign/:agentId.
func (h *TicketsHandler) AssignAgent(c *fiber.Ctx) error {
	ticketID, err := uuid.Parse(c.Params("ticketId"))
	if err != nil {
		return apperrors.NewValidationError("invalid ticket id", map[string]any{"ticket_id": c.Params("ticketId")})
	}
	agentID, err := uuid.Parse(c.Params("agentId"))
	if err != nil {
		return apperrors.NewValidationError("invalid agent id", map[string]any{"agent_id": c.Params("agentId")})
	}
	ticket, err := h.assignments.Assign(c.UserContext(), ticketID, agentID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// UpdateStatus PATCH /api/v1/tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	ticketID, err := parseTicketID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTicketStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	status, err := domain.ParseTicketStatus(req.Status)
	if err != nil {
		return apperrors.NewValidationError("unknown ticket status", map[string]any{"status": req.Status})
	}
	ticket, err := h.tickets.UpdateStatus(c.UserContext(), ticketID, status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

func parseTicketID(c *fiber.Ctx) (uuid.UUID, error) {
	ticketID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperrors.NewValidationError("invalid ticket id", map[string]any{"id": c.Params("id")})
	}
	return ticketID, nil
}

func ticketResponses(tickets []domain.Ticket) []dto.TicketResponse {
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.FromTicket(&tickets[i]))
	}
	return items
}
