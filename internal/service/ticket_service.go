package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/assignment-service/internal/domain"
	"github.com/spec-kit/assignment-service/internal/events"
	"github.com/spec-kit/assignment-service/internal/repository"
)

// TicketService exposes the ticket store: queries for the API surface and the
// status-update path that runs independently of assignment.
type TicketService struct {
	store      repository.Store
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewTicketService creates the service.
func NewTicketService(store repository.Store, dispatcher events.Dispatcher, logger *zap.Logger) *TicketService {
	return &TicketService{store: store, dispatcher: dispatcher, logger: logger}
}

// ListTickets returns all tickets.
func (s *TicketService) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	return s.store.Tickets().List(ctx)
}

// ListOpenTickets returns tickets that have not been assigned yet.
func (s *TicketService) ListOpenTickets(ctx context.Context) ([]domain.Ticket, error) {
	return s.store.Tickets().ListByStatus(ctx, domain.TicketStatusOpen)
}

// GetTicket fetches a single ticket.
func (s *TicketService) GetTicket(ctx context.Context, ticketID uuid.UUID) (*domain.Ticket, error) {
	return s.store.Tickets().GetByID(ctx, ticketID)
}

// UpdateStatus moves a ticket to the given status. This path deliberately
// does not touch the assignee: RESOLVED/CLOSED transitions happen after the
// assignment and OPEN tickets can be corrected by operators.
func (s *TicketService) UpdateStatus(ctx context.Context, ticketID uuid.UUID, status domain.TicketStatus) (*domain.Ticket, error) {
	current, err := s.store.Tickets().GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.store.Tickets().UpdateStatus(ctx, ticketID, status); err != nil {
		return nil, err
	}
	updated, err := s.store.Tickets().GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticketID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: current.Status,
			NewStatus: status,
		},
	})
	return updated, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
