package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/spec-kit/assignment-service/internal/domain"
	apperrors "github.com/spec-kit/assignment-service/pkg/util"
)

func seedAgent(t *testing.T, store Store, availability domain.AgentAvailability) domain.Agent {
	t.Helper()
	agent := domain.Agent{
		ID:           uuid.New(),
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Availability: availability,
		Skills:       []string{"Billing"},
	}
	if err := store.Agents().Create(context.Background(), &agent); err != nil {
		t.Fatalf("create agent: %v", err)
	}
	return agent
}

func seedTicket(t *testing.T, store Store) domain.Ticket {
	t.Helper()
	ticket := domain.Ticket{
		ID:          uuid.New(),
		Subject:     "printer on fire",
		Description: "it prints fire",
		Status:      domain.TicketStatusOpen,
		UserID:      "user-1",
	}
	if err := store.Tickets().Create(context.Background(), &ticket); err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	return ticket
}

func TestSetAssignmentUpdatesBothFields(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	agent := seedAgent(t, store, domain.AgentAvailable)
	ticketID := uuid.New()

	if err := store.Agents().SetAssignment(ctx, agent.ID, domain.AgentNotAvailable, &ticketID); err != nil {
		t.Fatalf("set assignment: %v", err)
	}

	got, err := store.Agents().GetByID(ctx, agent.ID)
	if err != nil {
		t.Fatalf("get agent: %v", err)
	}
	if got.Availability != domain.AgentNotAvailable {
		t.Fatalf("availability=%s want NOT_AVAILABLE", got.Availability)
	}
	if got.TicketID == nil || *got.TicketID != ticketID {
		t.Fatalf("ticket link=%v want %s", got.TicketID, ticketID)
	}

	// Releasing the agent clears the link together with availability.
	if err := store.Agents().SetAssignment(ctx, agent.ID, domain.AgentAvailable, nil); err != nil {
		t.Fatalf("clear assignment: %v", err)
	}
	got, err = store.Agents().GetByID(ctx, agent.ID)
	if err != nil {
		t.Fatalf("get agent: %v", err)
	}
	if got.Availability != domain.AgentAvailable || got.TicketID != nil {
		t.Fatalf("agent not released: %+v", got)
	}
}

func TestSetAssignmentUnknownAgent(t *testing.T) {
	store := NewMemoryStore()
	err := store.Agents().SetAssignment(context.Background(), uuid.New(), domain.AgentNotAvailable, nil)
	if !apperrors.IsCode(err, apperrors.CodeAgentNotFound) {
		t.Fatalf("err=%v want AGENT_NOT_FOUND", err)
	}
}

func TestCreateDuplicateTicketConflict(t *testing.T) {
	store := NewMemoryStore()
	ticket := seedTicket(t, store)

	dup := ticket
	err := store.Tickets().Create(context.Background(), &dup)
	if !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Fatalf("err=%v want CONFLICT", err)
	}
}

func TestUpdateAssignmentUnknownTicket(t *testing.T) {
	store := NewMemoryStore()
	err := store.Tickets().UpdateAssignment(context.Background(), uuid.New(), uuid.New(), domain.TicketStatusInProgress)
	if !apperrors.IsCode(err, apperrors.CodeTicketNotFound) {
		t.Fatalf("err=%v want TICKET_NOT_FOUND", err)
	}
}

func TestListByStatus(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	open := seedTicket(t, store)
	other := seedTicket(t, store)
	if err := store.Tickets().UpdateStatus(ctx, other.ID, domain.TicketStatusResolved); err != nil {
		t.Fatalf("update status: %v", err)
	}

	tickets, err := store.Tickets().ListByStatus(ctx, domain.TicketStatusOpen)
	if err != nil {
		t.Fatalf("list by status: %v", err)
	}
	if len(tickets) != 1 || tickets[0].ID != open.ID {
		t.Fatalf("tickets=%v want only %s", tickets, open.ID)
	}
}

func TestInTxRollsBackOnError(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	agent := seedAgent(t, store, domain.AgentAvailable)
	ticket := seedTicket(t, store)

	boom := errors.New("boom")
	err := store.InTx(ctx, func(tx Store) error {
		if err := tx.Tickets().UpdateAssignment(ctx, ticket.ID, agent.ID, domain.TicketStatusInProgress); err != nil {
			return err
		}
		if err := tx.Agents().SetAssignment(ctx, agent.ID, domain.AgentNotAvailable, &ticket.ID); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err=%v want boom", err)
	}

	gotTicket, err := store.Tickets().GetByID(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("get ticket: %v", err)
	}
	if gotTicket.Status != domain.TicketStatusOpen || gotTicket.AssigneeID != nil {
		t.Fatalf("ticket write leaked out of failed tx: %+v", gotTicket)
	}
	gotAgent, err := store.Agents().GetByID(ctx, agent.ID)
	if err != nil {
		t.Fatalf("get agent: %v", err)
	}
	if gotAgent.Availability != domain.AgentAvailable || gotAgent.TicketID != nil {
		t.Fatalf("agent write leaked out of failed tx: %+v", gotAgent)
	}
}

func TestReadsReturnCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	agent := seedAgent(t, store, domain.AgentAvailable)

	first, err := store.Agents().GetByID(ctx, agent.ID)
	if err != nil {
		t.Fatalf("get agent: %v", err)
	}
	first.Skills[0] = "mutated"
	first.Availability = domain.AgentNotAvailable

	second, err := store.Agents().GetByID(ctx, agent.ID)
	if err != nil {
		t.Fatalf("get agent: %v", err)
	}
	if second.Skills[0] != "Billing" || second.Availability != domain.AgentAvailable {
		t.Fatalf("stored agent mutated through returned copy: %+v", second)
	}
}
