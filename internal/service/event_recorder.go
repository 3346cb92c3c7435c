package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/assignment-service/internal/events"
	"github.com/spec-kit/assignment-service/internal/observability"
)

// EventRecorder subscribes to the in-process dispatcher and turns domain
// events into audit log lines and counters.
type EventRecorder struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewEventRecorder creates the recorder.
func NewEventRecorder(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *EventRecorder {
	return &EventRecorder{dispatcher: dispatcher, logger: logger, metrics: metrics}
}

// RegisterHandlers subscribes to events.
func (r *EventRecorder) RegisterHandlers() {
	if r.dispatcher == nil {
		return
	}
	r.dispatcher.Subscribe(events.EventTicketReceived, r.record)
	r.dispatcher.Subscribe(events.EventTicketAssigned, r.record)
	r.dispatcher.Subscribe(events.EventTicketStatusChanged, r.record)
}

func (r *EventRecorder) record(ctx context.Context, event events.Event) error {
	r.logger.Info("domain event",
		zap.String("type", string(event.Type)),
		zap.String("ticket_id", event.TicketID.String()),
		zap.Any("payload", event.Payload))
	r.metrics.RecordEvent(string(event.Type))
	return nil
}
