package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresQuerier implements Querier against a pgx connection pool.
type PostgresQuerier struct {
	pool *pgxpool.Pool
}

// NewPostgresQuerier wraps a pool. The pool's lifecycle stays with the caller.
func NewPostgresQuerier(pool *pgxpool.Pool) *PostgresQuerier {
	return &PostgresQuerier{pool: pool}
}

const getSessionSQL = `
SELECT id, situation, metadata, created_at, updated_at
FROM sessions
WHERE id = $1`

// GetSession fetches one session row. A missing row maps to ErrSessionNotFound.
func (q *PostgresQuerier) GetSession(ctx context.Context, id pgtype.UUID) (SessionRow, error) {
	var row SessionRow
	err := q.pool.QueryRow(ctx, getSessionSQL, id).Scan(
		&row.ID, &row.Situation, &row.Metadata, &row.CreatedAt, &row.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return SessionRow{}, ErrSessionNotFound
	}
	if err != nil {
		return SessionRow{}, fmt.Errorf("querying session: %w", err)
	}
	return row, nil
}

const listSessionAgentsSQL = `
SELECT a.id, a.name, a.about, a.model, a.default_settings, a.created_at, a.updated_at
FROM agents a
JOIN session_agents sa ON sa.agent_id = a.id
WHERE sa.session_id = $1
ORDER BY sa.position`

// ListSessionAgents returns the session's agents in membership order.
// Position order is the default-agent convention: the first row is the
// fallback when no agent is explicitly requested.
func (q *PostgresQuerier) ListSessionAgents(ctx context.Context, sessionID pgtype.UUID) ([]AgentRow, error) {
	rows, err := q.pool.Query(ctx, listSessionAgentsSQL, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying session agents: %w", err)
	}
	defer rows.Close()

	var out []AgentRow
	for rows.Next() {
		var row AgentRow
		if err := rows.Scan(
			&row.ID, &row.Name, &row.About, &row.Model,
			&row.DefaultSettings, &row.CreatedAt, &row.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning agent row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading agent rows: %w", err)
	}
	return out, nil
}

const listSessionUsersSQL = `
SELECT u.id, u.name, u.about, u.metadata, u.created_at, u.updated_at
FROM users u
JOIN session_users su ON su.user_id = u.id
WHERE su.session_id = $1
ORDER BY su.position`

// ListSessionUsers returns the session's users in membership order.
func (q *PostgresQuerier) ListSessionUsers(ctx context.Context, sessionID pgtype.UUID) ([]UserRow, error) {
	rows, err := q.pool.Query(ctx, listSessionUsersSQL, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying session users: %w", err)
	}
	defer rows.Close()

	var out []UserRow
	for rows.Next() {
		var row UserRow
		if err := rows.Scan(
			&row.ID, &row.Name, &row.About, &row.Metadata,
			&row.CreatedAt, &row.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading user rows: %w", err)
	}
	return out, nil
}

const listAgentToolsSQL = `
SELECT id, type, name, description, parameters
FROM tools
WHERE agent_id = $1
ORDER BY created_at, id`

// ListAgentTools returns the agent's tools in creation order.
func (q *PostgresQuerier) ListAgentTools(ctx context.Context, agentID pgtype.UUID) ([]ToolRow, error) {
	rows, err := q.pool.Query(ctx, listAgentToolsSQL, agentID)
	if err != nil {
		return nil, fmt.Errorf("querying agent tools: %w", err)
	}
	defer rows.Close()

	var out []ToolRow
	for rows.Next() {
		var row ToolRow
		if err := rows.Scan(
			&row.ID, &row.Type, &row.Name, &row.Description, &row.Parameters,
		); err != nil {
			return nil, fmt.Errorf("scanning tool row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading tool rows: %w", err)
	}
	return out, nil
}
