package events

// Wire messages exchanged with the gateway and management services over the
// event transport. Field names follow the established JSON contract of those
// services, so they are camelCase rather than this codebase's snake_case.

// TicketCreatedMessage is consumed from the ticket-created stream. CreatedAt
// carries a dd.MM.yyyy date with no time component.
type TicketCreatedMessage struct {
	TicketID    string `json:"ticketId"`
	UserID      string `json:"userId"`
	Status      string `json:"status"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
}

// TicketAssignedMessage is published to the ticket-assignments stream after a
// successful assignment.
type TicketAssignedMessage struct {
	TicketID   string `json:"ticketId"`
	AssigneeID string `json:"assigneeId"`
}
