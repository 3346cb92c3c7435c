package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// MaxDescriptionLength bounds ticket descriptions, matching the column width
// used by the upstream services.
const MaxDescriptionLength = 1000

// ParseTicketStatus resolves a status label case-insensitively.
func ParseTicketStatus(label string) (TicketStatus, error) {
	switch TicketStatus(strings.ToUpper(strings.TrimSpace(label))) {
	case TicketStatusOpen:
		return TicketStatusOpen, nil
	case TicketStatusInProgress:
		return TicketStatusInProgress, nil
	case TicketStatusResolved:
		return TicketStatusResolved, nil
	case TicketStatusClosed:
		return TicketStatusClosed, nil
	default:
		return "", fmt.Errorf("unknown ticket status %q", label)
	}
}

// Ticket is the aggregate for support requests. AssigneeID is nil until the
// coordinator binds the ticket to an agent.
type Ticket struct {
	ID          uuid.UUID
	Subject     string
	Description string
	Status      TicketStatus
	UserID      string
	AssigneeID  *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
