package dto

import (
	"github.com/spec-kit/assignment-service/internal/domain"
)

// AgentResponse represents an agent on the query surface.
type AgentResponse struct {
	ID           string                   `json:"id"`
	FirstName    string                   `json:"first_name"`
	LastName     string                   `json:"last_name"`
	Availability domain.AgentAvailability `json:"availability"`
	Skills       []string                 `json:"skills"`
	TicketID     *string                  `json:"ticket_id"`
}

// FromAgent maps the domain aggregate.
func FromAgent(agent *domain.Agent) AgentResponse {
	resp := AgentResponse{
		ID:           agent.ID.String(),
		FirstName:    agent.FirstName,
		LastName:     agent.LastName,
		Availability: agent.Availability,
		Skills:       agent.Skills,
	}
	if resp.Skills == nil {
		resp.Skills = []string{}
	}
	if agent.TicketID != nil {
		id := agent.TicketID.String()
		resp.TicketID = &id
	}
	return resp
}
