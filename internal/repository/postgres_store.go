package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/assignment-service/internal/domain"
	apperrors "github.com/spec-kit/assignment-service/pkg/util"
)

const pgUniqueViolation = "23505"

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the same
// repository code serves pooled and transactional access.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type postgresStore struct {
	q    querier
	pool *pgxpool.Pool
}

// NewPostgresStore builds the Postgres-backed store.
func NewPostgresStore(pool *pgxpool.Pool) Store {
	return &postgresStore{q: pool, pool: pool}
}

func (s *postgresStore) Agents() AgentRepository   { return &pgAgentRepository{q: s.q} }
func (s *postgresStore) Tickets() TicketRepository { return &pgTicketRepository{q: s.q} }

// InTx runs fn inside a single database transaction. Row locks taken via
// GetByIDForUpdate are held until commit or rollback. Nested calls join the
// enclosing transaction.
func (s *postgresStore) InTx(ctx context.Context, fn func(Store) error) error {
	if s.pool == nil {
		return fn(s)
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(&postgresStore{q: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type pgAgentRepository struct {
	q querier
}

const agentColumns = "agent_id, first_name, last_name, availability, skills, ticket_id"

func (r *pgAgentRepository) List(ctx context.Context) ([]domain.Agent, error) {
	rows, err := r.q.Query(ctx, "SELECT "+agentColumns+" FROM agents ORDER BY last_name, first_name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAgents(rows)
}

func (r *pgAgentRepository) ListByAvailability(ctx context.Context, availability domain.AgentAvailability) ([]domain.Agent, error) {
	rows, err := r.q.Query(ctx,
		"SELECT "+agentColumns+" FROM agents WHERE availability=$1 ORDER BY last_name, first_name",
		availability)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAgents(rows)
}

func (r *pgAgentRepository) GetByID(ctx context.Context, agentID uuid.UUID) (*domain.Agent, error) {
	return r.fetch(ctx, agentID, "")
}

func (r *pgAgentRepository) GetByIDForUpdate(ctx context.Context, agentID uuid.UUID) (*domain.Agent, error) {
	return r.fetch(ctx, agentID, " FOR UPDATE")
}

func (r *pgAgentRepository) fetch(ctx context.Context, agentID uuid.UUID, suffix string) (*domain.Agent, error) {
	var agent domain.Agent
	err := r.q.QueryRow(ctx,
		"SELECT "+agentColumns+" FROM agents WHERE agent_id=$1"+suffix,
		agentID,
	).Scan(&agent.ID, &agent.FirstName, &agent.LastName, &agent.Availability, &agent.Skills, &agent.TicketID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewAgentNotFound(agentID)
	}
	if err != nil {
		return nil, err
	}
	return &agent, nil
}

func (r *pgAgentRepository) SetAssignment(ctx context.Context, agentID uuid.UUID, availability domain.AgentAvailability, ticketID *uuid.UUID) error {
	cmd, err := r.q.Exec(ctx,
		"UPDATE agents SET availability=$1, ticket_id=$2 WHERE agent_id=$3",
		availability, ticketID, agentID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.NewAgentNotFound(agentID)
	}
	return nil
}

func (r *pgAgentRepository) Create(ctx context.Context, agent *domain.Agent) error {
	_, err := r.q.Exec(ctx,
		"INSERT INTO agents (agent_id, first_name, last_name, availability, skills, ticket_id) VALUES ($1,$2,$3,$4,$5,$6)",
		agent.ID, agent.FirstName, agent.LastName, agent.Availability, agent.Skills, agent.TicketID)
	if isUniqueViolation(err) {
		return apperrors.NewConflict("agent already exists", map[string]any{"agent_id": agent.ID.String()})
	}
	return err
}

func scanAgents(rows pgx.Rows) ([]domain.Agent, error) {
	var result []domain.Agent
	for rows.Next() {
		var agent domain.Agent
		if err := rows.Scan(&agent.ID, &agent.FirstName, &agent.LastName, &agent.Availability, &agent.Skills, &agent.TicketID); err != nil {
			return nil, err
		}
		result = append(result, agent)
	}
	return result, rows.Err()
}

type pgTicketRepository struct {
	q querier
}

const ticketColumns = "ticket_id, subject, description, status, user_id, assignee_id, created_at, updated_at"

func (r *pgTicketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	rows, err := r.q.Query(ctx, "SELECT "+ticketColumns+" FROM tickets ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *pgTicketRepository) ListByStatus(ctx context.Context, status domain.TicketStatus) ([]domain.Ticket, error) {
	rows, err := r.q.Query(ctx,
		"SELECT "+ticketColumns+" FROM tickets WHERE status=$1 ORDER BY created_at DESC",
		status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *pgTicketRepository) GetByID(ctx context.Context, ticketID uuid.UUID) (*domain.Ticket, error) {
	return r.fetch(ctx, ticketID, "")
}

func (r *pgTicketRepository) GetByIDForUpdate(ctx context.Context, ticketID uuid.UUID) (*domain.Ticket, error) {
	return r.fetch(ctx, ticketID, " FOR UPDATE")
}

func (r *pgTicketRepository) fetch(ctx context.Context, ticketID uuid.UUID, suffix string) (*domain.Ticket, error) {
	var ticket domain.Ticket
	err := r.q.QueryRow(ctx,
		"SELECT "+ticketColumns+" FROM tickets WHERE ticket_id=$1"+suffix,
		ticketID,
	).Scan(&ticket.ID, &ticket.Subject, &ticket.Description, &ticket.Status,
		&ticket.UserID, &ticket.AssigneeID, &ticket.CreatedAt, &ticket.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewTicketNotFound(ticketID)
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *pgTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	var createdAt *time.Time
	if !ticket.CreatedAt.IsZero() {
		createdAt = &ticket.CreatedAt
	}
	err := r.q.QueryRow(ctx,
		`INSERT INTO tickets (ticket_id, subject, description, status, user_id, assignee_id, created_at)
         VALUES ($1,$2,$3,$4,$5,$6,COALESCE($7, NOW()))
         RETURNING created_at, updated_at`,
		ticket.ID, ticket.Subject, ticket.Description, ticket.Status,
		ticket.UserID, ticket.AssigneeID, createdAt,
	).Scan(&ticket.CreatedAt, &ticket.UpdatedAt)
	if isUniqueViolation(err) {
		return apperrors.NewConflict("ticket already exists", map[string]any{"ticket_id": ticket.ID.String()})
	}
	return err
}

func (r *pgTicketRepository) UpdateAssignment(ctx context.Context, ticketID, assigneeID uuid.UUID, status domain.TicketStatus) error {
	cmd, err := r.q.Exec(ctx,
		"UPDATE tickets SET assignee_id=$1, status=$2, updated_at=NOW() WHERE ticket_id=$3",
		assigneeID, status, ticketID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.NewTicketNotFound(ticketID)
	}
	return nil
}

func (r *pgTicketRepository) UpdateStatus(ctx context.Context, ticketID uuid.UUID, status domain.TicketStatus) error {
	cmd, err := r.q.Exec(ctx,
		"UPDATE tickets SET status=$1, updated_at=NOW() WHERE ticket_id=$2",
		status, ticketID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.NewTicketNotFound(ticketID)
	}
	return nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(&ticket.ID, &ticket.Subject, &ticket.Description, &ticket.Status,
			&ticket.UserID, &ticket.AssigneeID, &ticket.CreatedAt, &ticket.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
