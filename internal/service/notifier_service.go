package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/assignment-service/internal/events"
	"github.com/spec-kit/assignment-service/internal/transport"
)

// AssignmentNotifier publishes assignment results to the ticket-assignments
// stream. Publishes are fire-and-forget: a failure is logged and dropped
// because the assignment is already durable, and a success is logged with the
// stream offset for observability only.
type AssignmentNotifier struct {
	publisher transport.Publisher
	stream    string
	timeout   time.Duration
	logger    *zap.Logger
}

// NewAssignmentNotifier creates the notifier.
func NewAssignmentNotifier(publisher transport.Publisher, stream string, timeout time.Duration, logger *zap.Logger) *AssignmentNotifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &AssignmentNotifier{publisher: publisher, stream: stream, timeout: timeout, logger: logger}
}

// NotifyAssigned publishes the ticket/agent pair. It runs on its own
// deadline, detached from the caller's context: the assignment has committed
// and a cancelled request must not suppress the event.
func (n *AssignmentNotifier) NotifyAssigned(ticketID, agentID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()

	msg := events.TicketAssignedMessage{
		TicketID:   ticketID.String(),
		AssigneeID: agentID.String(),
	}
	offset, err := n.publisher.Publish(ctx, n.stream, msg)
	if err != nil {
		n.logger.Error("unable to publish ticket assigned event",
			zap.String("ticket_id", msg.TicketID),
			zap.String("assignee_id", msg.AssigneeID),
			zap.Error(err))
		return
	}
	n.logger.Info("ticket assigned event published",
		zap.String("ticket_id", msg.TicketID),
		zap.String("assignee_id", msg.AssigneeID),
		zap.String("offset", offset))
}
