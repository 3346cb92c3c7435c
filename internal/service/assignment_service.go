package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/assignment-service/internal/domain"
	"github.com/spec-kit/assignment-service/internal/events"
	"github.com/spec-kit/assignment-service/internal/repository"
	apperrors "github.com/spec-kit/assignment-service/pkg/util"
)

// Notifier publishes the assignment result to the event transport. It never
// reports failure to the coordinator.
type Notifier interface {
	NotifyAssigned(ticketID, agentID uuid.UUID)
}

// AssignmentService is the coordinator binding tickets to agents. All of its
// precondition checks and both aggregate writes run inside one store
// transaction, so concurrent calls racing on the same agent or ticket see
// exactly one winner.
type AssignmentService struct {
	store      repository.Store
	notifier   Notifier
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AssignmentDependencies bundles the coordinator's collaborators.
type AssignmentDependencies struct {
	Store      repository.Store
	Notifier   Notifier
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		store:      deps.Store,
		notifier:   deps.Notifier,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// Assign binds the ticket to the agent. Preconditions, checked in order, each
// map to a distinct error code: ticket exists, ticket unassigned, agent
// exists, agent available. On success the ticket becomes IN_PROGRESS with the
// agent as assignee and the agent becomes NOT_AVAILABLE holding the ticket
// link; the assignment-result event is published after the writes commit.
func (s *AssignmentService) Assign(ctx context.Context, ticketID, agentID uuid.UUID) (*domain.Ticket, error) {
	s.logger.Info("assigning agent to ticket",
		zap.String("ticket_id", ticketID.String()),
		zap.String("agent_id", agentID.String()))

	var assigned *domain.Ticket
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		ticket, err := tx.Tickets().GetByIDForUpdate(ctx, ticketID)
		if err != nil {
			return err
		}
		if ticket.AssigneeID != nil {
			return apperrors.NewAlreadyAssigned(ticketID, *ticket.AssigneeID)
		}

		agent, err := tx.Agents().GetByIDForUpdate(ctx, agentID)
		if err != nil {
			return err
		}
		if agent.Availability != domain.AgentAvailable {
			return apperrors.NewAgentUnavailable(agentID)
		}

		if err := tx.Tickets().UpdateAssignment(ctx, ticketID, agentID, domain.TicketStatusInProgress); err != nil {
			return err
		}
		if err := tx.Agents().SetAssignment(ctx, agentID, domain.AgentNotAvailable, &ticketID); err != nil {
			return err
		}

		assigned, err = tx.Tickets().GetByID(ctx, ticketID)
		return err
	})
	if err != nil {
		return nil, err
	}

	// The assignment is durable at this point. Notification failures are the
	// notifier's problem and never undo it.
	s.notifier.NotifyAssigned(ticketID, agentID)

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticketID,
		Payload:  events.TicketAssignedPayload{AssigneeID: agentID},
	})
	return assigned, nil
}

func (s *AssignmentService) publishEvent(ctx context.Context, event events.Event) {
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
