package events

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestDispatcherFansOut(t *testing.T) {
	d := NewInMemoryDispatcher()

	var first, second int
	d.Subscribe(EventTicketAssigned, func(context.Context, Event) error {
		first++
		return nil
	})
	d.Subscribe(EventTicketAssigned, func(context.Context, Event) error {
		second++
		return nil
	})
	d.Subscribe(EventTicketReceived, func(context.Context, Event) error {
		t.Fatal("handler for a different event type invoked")
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventTicketAssigned, TicketID: uuid.New()}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if first != 1 || second != 1 {
		t.Fatalf("handler calls first=%d second=%d want 1/1", first, second)
	}
}

func TestDispatcherHandlerErrorDoesNotStopOthers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var called bool
	d.Subscribe(EventTicketReceived, func(context.Context, Event) error {
		return errors.New("boom")
	})
	d.Subscribe(EventTicketReceived, func(context.Context, Event) error {
		called = true
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventTicketReceived}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !called {
		t.Fatal("second handler skipped after first failed")
	}
}
