package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/assignment-service/internal/domain"
	"github.com/spec-kit/assignment-service/internal/repository"
)

// AgentService exposes the agent directory.
type AgentService struct {
	store  repository.Store
	logger *zap.Logger
}

// NewAgentService creates the service.
func NewAgentService(store repository.Store, logger *zap.Logger) *AgentService {
	return &AgentService{store: store, logger: logger}
}

// ListAgents returns all agents.
func (s *AgentService) ListAgents(ctx context.Context) ([]domain.Agent, error) {
	return s.store.Agents().List(ctx)
}

// ListAvailableAgents returns agents that can take a ticket.
func (s *AgentService) ListAvailableAgents(ctx context.Context) ([]domain.Agent, error) {
	return s.store.Agents().ListByAvailability(ctx, domain.AgentAvailable)
}

// GetAgent fetches a single agent.
func (s *AgentService) GetAgent(ctx context.Context, agentID uuid.UUID) (*domain.Agent, error) {
	return s.store.Agents().GetByID(ctx, agentID)
}

// SetAgentAssignment updates an agent's availability together with the ticket
// link. The assignment coordinator performs this inside its own transaction;
// this entry point serves administrative corrections.
func (s *AgentService) SetAgentAssignment(ctx context.Context, agentID uuid.UUID, availability domain.AgentAvailability, ticketID *uuid.UUID) (*domain.Agent, error) {
	if err := s.store.Agents().SetAssignment(ctx, agentID, availability, ticketID); err != nil {
		return nil, err
	}
	s.logger.Info("agent availability updated",
		zap.String("agent_id", agentID.String()),
		zap.String("availability", string(availability)))
	return s.store.Agents().GetByID(ctx, agentID)
}
