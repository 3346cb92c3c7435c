package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/assignment-service/internal/domain"
	"github.com/spec-kit/assignment-service/internal/events"
	"github.com/spec-kit/assignment-service/internal/repository"
	apperrors "github.com/spec-kit/assignment-service/pkg/util"
)

// Creation dates arrive as dd.MM.yyyy with no time component.
const createdAtLayout = "02.01.2006"

// IntakeService materializes tickets from ticket-created events. It never
// lets a bad event take down the consumer: malformed identifiers and unknown
// statuses reject the event (the consumer dead-letters it), a duplicate
// identifier on redelivery is a logged no-op, and an unparseable creation
// date falls back to the current time rather than failing.
type IntakeService struct {
	store      repository.Store
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewIntakeService creates the service.
func NewIntakeService(store repository.Store, dispatcher events.Dispatcher, logger *zap.Logger) *IntakeService {
	return &IntakeService{store: store, dispatcher: dispatcher, logger: logger}
}

// HandleTicketCreated consumes one raw ticket-created message.
func (s *IntakeService) HandleTicketCreated(ctx context.Context, body []byte) error {
	var msg events.TicketCreatedMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		s.logger.Warn("malformed ticket-created payload", zap.Error(err))
		return apperrors.NewValidationError("malformed ticket-created payload", nil)
	}

	ticketID, err := uuid.Parse(msg.TicketID)
	if err != nil {
		s.logger.Warn("malformed ticket id in event", zap.String("ticket_id", msg.TicketID))
		return apperrors.NewValidationError("malformed ticket id", map[string]any{"ticket_id": msg.TicketID})
	}

	status, err := domain.ParseTicketStatus(msg.Status)
	if err != nil {
		s.logger.Warn("unknown ticket status in event",
			zap.String("ticket_id", msg.TicketID),
			zap.String("status", msg.Status))
		return apperrors.NewValidationError("unknown ticket status", map[string]any{"status": msg.Status})
	}

	if len(msg.Description) > domain.MaxDescriptionLength {
		s.logger.Warn("ticket description exceeds bound",
			zap.String("ticket_id", msg.TicketID),
			zap.Int("length", len(msg.Description)))
		return apperrors.NewValidationError("description too long", map[string]any{"ticket_id": msg.TicketID})
	}

	ticket := &domain.Ticket{
		ID:          ticketID,
		Subject:     msg.Subject,
		Description: msg.Description,
		Status:      status,
		UserID:      msg.UserID,
		CreatedAt:   s.parseCreatedAt(msg.TicketID, msg.CreatedAt),
	}

	if err := s.store.Tickets().Create(ctx, ticket); err != nil {
		if apperrors.IsCode(err, apperrors.CodeConflict) {
			// Redelivery of an event we already consumed.
			s.logger.Info("duplicate ticket-created event ignored", zap.String("ticket_id", msg.TicketID))
			return nil
		}
		s.logger.Error("persist ticket from event", zap.String("ticket_id", msg.TicketID), zap.Error(err))
		return err
	}

	s.logger.Info("ticket created from event",
		zap.String("ticket_id", ticket.ID.String()),
		zap.String("status", string(ticket.Status)))

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketReceived,
		TicketID: ticket.ID,
		Payload: events.TicketReceivedPayload{
			UserID: ticket.UserID,
			Status: ticket.Status,
		},
	})
	return nil
}

// parseCreatedAt applies the lenient date policy: a malformed or missing
// createdAt must never abort ticket creation.
func (s *IntakeService) parseCreatedAt(ticketID, raw string) time.Time {
	if raw == "" {
		return time.Now()
	}
	parsed, err := time.Parse(createdAtLayout, raw)
	if err != nil {
		s.logger.Warn("could not parse createdAt date, using current time",
			zap.String("ticket_id", ticketID),
			zap.String("created_at", raw))
		return time.Now()
	}
	return parsed
}

func (s *IntakeService) publishEvent(ctx context.Context, event events.Event) {
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
