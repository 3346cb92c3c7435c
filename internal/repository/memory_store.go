package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/assignment-service/internal/domain"
	apperrors "github.com/spec-kit/assignment-service/pkg/util"
)

// memoryState holds both aggregate maps so the snapshot taken by InTx covers
// the whole store.
type memoryState struct {
	agents  map[uuid.UUID]domain.Agent
	tickets map[uuid.UUID]domain.Ticket
}

// memoryStore is the in-memory store binding. It serves as the runtime
// fallback when no Postgres DSN is configured and as the test substrate.
// Transactions serialize on a single mutex; a failed transaction restores the
// pre-transaction snapshot, so partial writes never become visible.
type memoryStore struct {
	mu    *sync.Mutex
	state *memoryState
	inTx  bool
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() Store {
	return &memoryStore{
		mu: &sync.Mutex{},
		state: &memoryState{
			agents:  make(map[uuid.UUID]domain.Agent),
			tickets: make(map[uuid.UUID]domain.Ticket),
		},
	}
}

func (s *memoryStore) Agents() AgentRepository   { return &memAgentRepository{s: s} }
func (s *memoryStore) Tickets() TicketRepository { return &memTicketRepository{s: s} }

func (s *memoryStore) InTx(ctx context.Context, fn func(Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	backup := s.state.clone()
	err := fn(&memoryStore{mu: s.mu, state: s.state, inTx: true})
	if err != nil {
		*s.state = *backup
	}
	return err
}

func (s *memoryStore) lock() {
	if !s.inTx {
		s.mu.Lock()
	}
}

func (s *memoryStore) unlock() {
	if !s.inTx {
		s.mu.Unlock()
	}
}

func (st *memoryState) clone() *memoryState {
	agents := make(map[uuid.UUID]domain.Agent, len(st.agents))
	for id, agent := range st.agents {
		agents[id] = copyAgent(agent)
	}
	tickets := make(map[uuid.UUID]domain.Ticket, len(st.tickets))
	for id, ticket := range st.tickets {
		tickets[id] = copyTicket(ticket)
	}
	return &memoryState{agents: agents, tickets: tickets}
}

func copyAgent(agent domain.Agent) domain.Agent {
	if agent.Skills != nil {
		agent.Skills = append([]string(nil), agent.Skills...)
	}
	if agent.TicketID != nil {
		id := *agent.TicketID
		agent.TicketID = &id
	}
	return agent
}

func copyTicket(ticket domain.Ticket) domain.Ticket {
	if ticket.AssigneeID != nil {
		id := *ticket.AssigneeID
		ticket.AssigneeID = &id
	}
	return ticket
}

type memAgentRepository struct {
	s *memoryStore
}

func (r *memAgentRepository) List(ctx context.Context) ([]domain.Agent, error) {
	r.s.lock()
	defer r.s.unlock()

	result := make([]domain.Agent, 0, len(r.s.state.agents))
	for _, agent := range r.s.state.agents {
		result = append(result, copyAgent(agent))
	}
	sortAgents(result)
	return result, nil
}

func (r *memAgentRepository) ListByAvailability(ctx context.Context, availability domain.AgentAvailability) ([]domain.Agent, error) {
	r.s.lock()
	defer r.s.unlock()

	var result []domain.Agent
	for _, agent := range r.s.state.agents {
		if agent.Availability == availability {
			result = append(result, copyAgent(agent))
		}
	}
	sortAgents(result)
	return result, nil
}

func (r *memAgentRepository) GetByID(ctx context.Context, agentID uuid.UUID) (*domain.Agent, error) {
	r.s.lock()
	defer r.s.unlock()

	agent, ok := r.s.state.agents[agentID]
	if !ok {
		return nil, apperrors.NewAgentNotFound(agentID)
	}
	copied := copyAgent(agent)
	return &copied, nil
}

// GetByIDForUpdate is identical to GetByID here: the store mutex already
// serializes whole transactions.
func (r *memAgentRepository) GetByIDForUpdate(ctx context.Context, agentID uuid.UUID) (*domain.Agent, error) {
	return r.GetByID(ctx, agentID)
}

func (r *memAgentRepository) Create(ctx context.Context, agent *domain.Agent) error {
	r.s.lock()
	defer r.s.unlock()

	if _, ok := r.s.state.agents[agent.ID]; ok {
		return apperrors.NewConflict("agent already exists", map[string]any{"agent_id": agent.ID.String()})
	}
	r.s.state.agents[agent.ID] = copyAgent(*agent)
	return nil
}

func (r *memAgentRepository) SetAssignment(ctx context.Context, agentID uuid.UUID, availability domain.AgentAvailability, ticketID *uuid.UUID) error {
	r.s.lock()
	defer r.s.unlock()

	agent, ok := r.s.state.agents[agentID]
	if !ok {
		return apperrors.NewAgentNotFound(agentID)
	}
	agent.Availability = availability
	if ticketID != nil {
		id := *ticketID
		agent.TicketID = &id
	} else {
		agent.TicketID = nil
	}
	r.s.state.agents[agentID] = agent
	return nil
}

func sortAgents(agents []domain.Agent) {
	sort.Slice(agents, func(i, j int) bool {
		if agents[i].LastName != agents[j].LastName {
			return agents[i].LastName < agents[j].LastName
		}
		return agents[i].FirstName < agents[j].FirstName
	})
}

type memTicketRepository struct {
	s *memoryStore
}

func (r *memTicketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	r.s.lock()
	defer r.s.unlock()

	result := make([]domain.Ticket, 0, len(r.s.state.tickets))
	for _, ticket := range r.s.state.tickets {
		result = append(result, copyTicket(ticket))
	}
	sortTickets(result)
	return result, nil
}

func (r *memTicketRepository) ListByStatus(ctx context.Context, status domain.TicketStatus) ([]domain.Ticket, error) {
	r.s.lock()
	defer r.s.unlock()

	var result []domain.Ticket
	for _, ticket := range r.s.state.tickets {
		if ticket.Status == status {
			result = append(result, copyTicket(ticket))
		}
	}
	sortTickets(result)
	return result, nil
}

func (r *memTicketRepository) GetByID(ctx context.Context, ticketID uuid.UUID) (*domain.Ticket, error) {
	r.s.lock()
	defer r.s.unlock()

	ticket, ok := r.s.state.tickets[ticketID]
	if !ok {
		return nil, apperrors.NewTicketNotFound(ticketID)
	}
	copied := copyTicket(ticket)
	return &copied, nil
}

func (r *memTicketRepository) GetByIDForUpdate(ctx context.Context, ticketID uuid.UUID) (*domain.Ticket, error) {
	return r.GetByID(ctx, ticketID)
}

func (r *memTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.s.lock()
	defer r.s.unlock()

	if _, ok := r.s.state.tickets[ticket.ID]; ok {
		return apperrors.NewConflict("ticket already exists", map[string]any{"ticket_id": ticket.ID.String()})
	}
	now := time.Now()
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = now
	}
	ticket.UpdatedAt = now
	r.s.state.tickets[ticket.ID] = copyTicket(*ticket)
	return nil
}

func (r *memTicketRepository) UpdateAssignment(ctx context.Context, ticketID, assigneeID uuid.UUID, status domain.TicketStatus) error {
	r.s.lock()
	defer r.s.unlock()

	ticket, ok := r.s.state.tickets[ticketID]
	if !ok {
		return apperrors.NewTicketNotFound(ticketID)
	}
	id := assigneeID
	ticket.AssigneeID = &id
	ticket.Status = status
	ticket.UpdatedAt = time.Now()
	r.s.state.tickets[ticketID] = ticket
	return nil
}

func (r *memTicketRepository) UpdateStatus(ctx context.Context, ticketID uuid.UUID, status domain.TicketStatus) error {
	r.s.lock()
	defer r.s.unlock()

	ticket, ok := r.s.state.tickets[ticketID]
	if !ok {
		return apperrors.NewTicketNotFound(ticketID)
	}
	ticket.Status = status
	ticket.UpdatedAt = time.Now()
	r.s.state.tickets[ticketID] = ticket
	return nil
}

func sortTickets(tickets []domain.Ticket) {
	sort.Slice(tickets, func(i, j int) bool {
		return tickets[i].CreatedAt.After(tickets[j].CreatedAt)
	})
}
