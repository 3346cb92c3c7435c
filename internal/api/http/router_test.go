package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/assignment-service/internal/api/http/handlers"
	"github.com/spec-kit/assignment-service/internal/domain"
	"github.com/spec-kit/assignment-service/internal/events"
	"github.com/spec-kit/assignment-service/internal/observability"
	"github.com/spec-kit/assignment-service/internal/repository"
	"github.com/spec-kit/assignment-service/internal/service"
)

type nopPublisher struct {
	mu    sync.Mutex
	count int
}

func (p *nopPublisher) Publish(context.Context, string, any) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count++
	return "0-1", nil
}

type apiEnv struct {
	app   *fiber.App
	store repository.Store
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	logger := zap.NewNop()
	store := repository.NewMemoryStore()
	dispatcher := events.NewInMemoryDispatcher()
	notifier := service.NewAssignmentNotifier(&nopPublisher{}, "ticket-assignments", time.Second, logger)

	ticketService := service.NewTicketService(store, dispatcher, logger)
	assignmentService := service.NewAssignmentService(service.AssignmentDependencies{
		Store:      store,
		Notifier:   notifier,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	app := fiber.New()
	RegisterMiddlewares(app, logger, observability.NewMetrics(), time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:  handlers.NewHealthHandler("test", "dev", nil, nil),
		Agents:  handlers.NewAgentsHandler(service.NewAgentService(store, logger)),
		Tickets: handlers.NewTicketsHandler(ticketService, assignmentService),
	})

	return &apiEnv{app: app, store: store}
}

func (e *apiEnv) seedAgent(t *testing.T, availability domain.AgentAvailability) domain.Agent {
	t.Helper()
	agent := domain.Agent{
		ID:           uuid.New(),
		FirstName:    "Jane",
		LastName:     "Smith",
		Availability: availability,
		Skills:       []string{"Billing"},
	}
	if err := e.store.Agents().Create(context.Background(), &agent); err != nil {
		t.Fatalf("create agent: %v", err)
	}
	return agent
}

func (e *apiEnv) seedTicket(t *testing.T) domain.Ticket {
	t.Helper()
	ticket := domain.Ticket{
		ID:      uuid.New(),
		Subject: "slow dashboard",
		Status:  domain.TicketStatusOpen,
		UserID:  "user-1",
	}
	if err := e.store.Tickets().Create(context.Background(), &ticket); err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	return ticket
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type ticketEnvelope struct {
	Data struct {
		ID         string  `json:"id"`
		Status     string  `json:"status"`
		AssigneeID *string `json:"assignee_id"`
	} `json:"data"`
}

func (e *apiEnv) request(t *testing.T, method, target, body string, out any) int {
	t.Helper()
	var req = httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}
	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode body: %v", method, target, err)
		}
	}
	return resp.StatusCode
}

func TestAssignEndpoint(t *testing.T) {
	env := newAPIEnv(t)
	agent := env.seedAgent(t, domain.AgentAvailable)
	ticket := env.seedTicket(t)

	var ok ticketEnvelope
	status := env.request(t, fiber.MethodPost,
		fmt.Sprintf("/api/v1/tickets/%s/assign/%s", ticket.ID, agent.ID), "", &ok)
	if status != fiber.StatusOK {
		t.Fatalf("status=%d want 200", status)
	}
	if ok.Data.Status != "IN_PROGRESS" {
		t.Fatalf("ticket status=%s want IN_PROGRESS", ok.Data.Status)
	}
	if ok.Data.AssigneeID == nil || *ok.Data.AssigneeID != agent.ID.String() {
		t.Fatalf("assignee=%v want %s", ok.Data.AssigneeID, agent.ID)
	}

	var conflict errorEnvelope
	status = env.request(t, fiber.MethodPost,
		fmt.Sprintf("/api/v1/tickets/%s/assign/%s", ticket.ID, agent.ID), "", &conflict)
	if status != fiber.StatusConflict || conflict.Error.Code != "ALREADY_ASSIGNED" {
		t.Fatalf("status=%d code=%s want 409 ALREADY_ASSIGNED", status, conflict.Error.Code)
	}
}

func TestAssignEndpointUnknownTicket(t *testing.T) {
	env := newAPIEnv(t)
	agent := env.seedAgent(t, domain.AgentAvailable)

	var envlp errorEnvelope
	status := env.request(t, fiber.MethodPost,
		fmt.Sprintf("/api/v1/tickets/%s/assign/%s", uuid.New(), agent.ID), "", &envlp)
	if status != fiber.StatusNotFound || envlp.Error.Code != "TICKET_NOT_FOUND" {
		t.Fatalf("status=%d code=%s want 404 TICKET_NOT_FOUND", status, envlp.Error.Code)
	}
}

func TestAssignEndpointUnavailableAgent(t *testing.T) {
	env := newAPIEnv(t)
	agent := env.seedAgent(t, domain.AgentNotAvailable)
	ticket := env.seedTicket(t)

	var envlp errorEnvelope
	status := env.request(t, fiber.MethodPost,
		fmt.Sprintf("/api/v1/tickets/%s/assign/%s", ticket.ID, agent.ID), "", &envlp)
	if status != fiber.StatusConflict || envlp.Error.Code != "AGENT_UNAVAILABLE" {
		t.Fatalf("status=%d code=%s want 409 AGENT_UNAVAILABLE", status, envlp.Error.Code)
	}
}

func TestAssignEndpointMalformedIDs(t *testing.T) {
	env := newAPIEnv(t)

	var envlp errorEnvelope
	status := env.request(t, fiber.MethodPost, "/api/v1/tickets/nope/assign/also-nope", "", &envlp)
	if status != fiber.StatusBadRequest || envlp.Error.Code != "VALIDATION_FAILED" {
		t.Fatalf("status=%d code=%s want 400 VALIDATION_FAILED", status, envlp.Error.Code)
	}
}

func TestListAvailableAgentsEndpoint(t *testing.T) {
	env := newAPIEnv(t)
	available := env.seedAgent(t, domain.AgentAvailable)
	env.seedAgent(t, domain.AgentNotAvailable)

	var envlp struct {
		Data []struct {
			ID           string `json:"id"`
			Availability string `json:"availability"`
		} `json:"data"`
	}
	status := env.request(t, fiber.MethodGet, "/api/v1/agents/available", "", &envlp)
	if status != fiber.StatusOK {
		t.Fatalf("status=%d want 200", status)
	}
	if len(envlp.Data) != 1 || envlp.Data[0].ID != available.ID.String() {
		t.Fatalf("data=%+v want only %s", envlp.Data, available.ID)
	}
}

func TestListNewTicketsEndpoint(t *testing.T) {
	env := newAPIEnv(t)
	agent := env.seedAgent(t, domain.AgentAvailable)
	open := env.seedTicket(t)
	assigned := env.seedTicket(t)

	status := env.request(t, fiber.MethodPost,
		fmt.Sprintf("/api/v1/tickets/%s/assign/%s", assigned.ID, agent.ID), "", nil)
	if status != fiber.StatusOK {
		t.Fatalf("assign status=%d want 200", status)
	}

	var envlp struct {
		Data []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"data"`
	}
	status = env.request(t, fiber.MethodGet, "/api/v1/tickets/new", "", &envlp)
	if status != fiber.StatusOK {
		t.Fatalf("status=%d want 200", status)
	}
	if len(envlp.Data) != 1 || envlp.Data[0].ID != open.ID.String() {
		t.Fatalf("data=%+v want only %s", envlp.Data, open.ID)
	}
}

func TestUpdateStatusEndpoint(t *testing.T) {
	env := newAPIEnv(t)
	ticket := env.seedTicket(t)

	var ok ticketEnvelope
	status := env.request(t, fiber.MethodPatch,
		fmt.Sprintf("/api/v1/tickets/%s/status", ticket.ID), `{"status":"resolved"}`, &ok)
	if status != fiber.StatusOK || ok.Data.Status != "RESOLVED" {
		t.Fatalf("status=%d body=%+v want 200 RESOLVED", status, ok.Data)
	}

	var envlp errorEnvelope
	status = env.request(t, fiber.MethodPatch,
		fmt.Sprintf("/api/v1/tickets/%s/status", ticket.ID), `{"status":"NOT_A_STATUS"}`, &envlp)
	if status != fiber.StatusBadRequest || envlp.Error.Code != "VALIDATION_FAILED" {
		t.Fatalf("status=%d code=%s want 400 VALIDATION_FAILED", status, envlp.Error.Code)
	}
}

func TestLivenessEndpoint(t *testing.T) {
	env := newAPIEnv(t)

	var envlp struct {
		Status  string `json:"status"`
		Service string `json:"service"`
	}
	status := env.request(t, fiber.MethodGet, "/health/live", "", &envlp)
	if status != fiber.StatusOK || envlp.Status != "alive" || envlp.Service != "test" {
		t.Fatalf("status=%d body=%+v want 200 alive/test", status, envlp)
	}
}
