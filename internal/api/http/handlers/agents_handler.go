package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/assignment-service/internal/api/dto"
	"github.com/spec-kit/assignment-service/internal/domain"
	"github.com/spec-kit/assignment-service/internal/service"
	apperrors "github.com/spec-kit/assignment-service/pkg/util"
)

// AgentsHandler exposes the agent directory query surface.
type AgentsHandler struct {
	service *service.AgentService
}

// NewAgentsHandler constructs handler.
func NewAgentsHandler(agentService *service.AgentService) *AgentsHandler {
	return &AgentsHandler{service: agentService}
}

// ListAgents GET /api/v1/agents.
func (h *AgentsHandler) ListAgents(c *fiber.Ctx) error {
	agents, err := h.service.ListAgents(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": agentResponses(agents)})
}

// ListAvailableAgents GET /api/v1/agents/available.
func (h *AgentsHandler) ListAvailableAgents(c *fiber.Ctx) error {
	agents, err := h.service.ListAvailableAgents(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": agentResponses(agents)})
}

// GetAgent GET /api/v1/agents/:id.
func (h *AgentsHandler) GetAgent(c *fiber.Ctx) error {
	agentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperrors.NewValidationError("invalid agent id", map[string]any{"id": c.Params("id")})
	}
	agent, err := h.service.GetAgent(c.UserContext(), agentID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromAgent(agent)})
}

func agentResponses(agents []domain.Agent) []dto.AgentResponse {
	items := make([]dto.AgentResponse, 0, len(agents))
	for i := range agents {
		items = append(items, dto.FromAgent(&agents[i]))
	}
	return items
}
