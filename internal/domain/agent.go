package domain

import "github.com/google/uuid"

// AgentAvailability enumerates whether an agent can take a ticket.
type AgentAvailability string

const (
	AgentAvailable    AgentAvailability = "AVAILABLE"
	AgentNotAvailable AgentAvailability = "NOT_AVAILABLE"
)

// Agent models a support agent who handles at most one ticket at a time.
// TicketID is non-nil exactly when the agent was booked through the
// assignment flow; manually seeded rows are not forced into that pairing.
type Agent struct {
	ID           uuid.UUID
	FirstName    string
	LastName     string
	Availability AgentAvailability
	Skills       []string
	TicketID     *uuid.UUID
}
