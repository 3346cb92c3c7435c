package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/assignment-service/internal/domain"
)

// EventType enumerates internal event identifiers.
type EventType string

const (
	EventTicketReceived      EventType = "ticket_received"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketStatusChanged EventType = "ticket_status_changed"
)

// Event represents a domain event emitted on the in-process dispatcher for
// audit logging and metrics. It is not the wire format; see messages.go.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  uuid.UUID   `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketReceivedPayload payload.
type TicketReceivedPayload struct {
	UserID string              `json:"user_id"`
	Status domain.TicketStatus `json:"status"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AssigneeID uuid.UUID `json:"assignee_id"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}
