package dto

import (
	"time"

	"github.com/spec-kit/assignment-service/internal/domain"
)

// TicketResponse represents a ticket on the query surface.
type TicketResponse struct {
	ID          string              `json:"id"`
	Subject     string              `json:"subject"`
	Description string              `json:"description"`
	Status      domain.TicketStatus `json:"status"`
	UserID      string              `json:"user_id"`
	AssigneeID  *string             `json:"assignee_id"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// UpdateTicketStatusRequest payload.
type UpdateTicketStatusRequest struct {
	Status string `json:"status"`
}

// FromTicket maps the domain aggregate.
func FromTicket(ticket *domain.Ticket) TicketResponse {
	resp := TicketResponse{
		ID:          ticket.ID.String(),
		Subject:     ticket.Subject,
		Description: ticket.Description,
		Status:      ticket.Status,
		UserID:      ticket.UserID,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
	if ticket.AssigneeID != nil {
		id := ticket.AssigneeID.String()
		resp.AssigneeID = &id
	}
	return resp
}
