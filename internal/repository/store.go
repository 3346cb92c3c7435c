package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/spec-kit/assignment-service/internal/domain"
)

// AgentRepository is the agent directory contract. SetAssignment writes
// availability and the ticket link as one atomic update.
type AgentRepository interface {
	List(ctx context.Context) ([]domain.Agent, error)
	ListByAvailability(ctx context.Context, availability domain.AgentAvailability) ([]domain.Agent, error)
	GetByID(ctx context.Context, agentID uuid.UUID) (*domain.Agent, error)
	// GetByIDForUpdate locks the agent row for the remainder of the
	// enclosing transaction. Outside a transaction it behaves like GetByID.
	GetByIDForUpdate(ctx context.Context, agentID uuid.UUID) (*domain.Agent, error)
	// Create inserts an agent record; used by seeding and onboarding, not by
	// the assignment flow.
	Create(ctx context.Context, agent *domain.Agent) error
	SetAssignment(ctx context.Context, agentID uuid.UUID, availability domain.AgentAvailability, ticketID *uuid.UUID) error
}

// TicketRepository is the ticket store contract. UpdateAssignment and
// UpdateStatus refresh the last-updated timestamp.
type TicketRepository interface {
	List(ctx context.Context) ([]domain.Ticket, error)
	ListByStatus(ctx context.Context, status domain.TicketStatus) ([]domain.Ticket, error)
	GetByID(ctx context.Context, ticketID uuid.UUID) (*domain.Ticket, error)
	GetByIDForUpdate(ctx context.Context, ticketID uuid.UUID) (*domain.Ticket, error)
	Create(ctx context.Context, ticket *domain.Ticket) error
	UpdateAssignment(ctx context.Context, ticketID, assigneeID uuid.UUID, status domain.TicketStatus) error
	UpdateStatus(ctx context.Context, ticketID uuid.UUID, status domain.TicketStatus) error
}

// Store owns both aggregates and provides the transaction boundary spanning
// them. InTx runs fn against a transactional view of the store; the writes
// performed inside fn commit together or not at all, and concurrent InTx
// calls touching the same rows serialize against each other.
type Store interface {
	Agents() AgentRepository
	Tickets() TicketRepository
	InTx(ctx context.Context, fn func(Store) error) error
}
