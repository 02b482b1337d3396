// Package store hydrates chat contexts from PostgreSQL.
//
// Store assembles one chatctx.Context per request from the session, agent,
// user, and tool records the upstream service persists. It owns no schema of
// its own: tables belong to the service that writes them; this package only
// reads.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/koopa0/chatctx/internal/chatctx"
	"github.com/koopa0/chatctx/internal/schema"
)

// ErrSessionNotFound indicates the requested session does not exist.
// Check with errors.Is().
var ErrSessionNotFound = errors.New("session not found")

// Querier defines the database operations Store depends on.
// Following Go convention the interface is defined here, by the consumer;
// the pgx implementation lives in postgres.go and tests supply fakes.
type Querier interface {
	GetSession(ctx context.Context, id pgtype.UUID) (SessionRow, error)
	ListSessionAgents(ctx context.Context, sessionID pgtype.UUID) ([]AgentRow, error)
	ListSessionUsers(ctx context.Context, sessionID pgtype.UUID) ([]UserRow, error)
	ListAgentTools(ctx context.Context, agentID pgtype.UUID) ([]ToolRow, error)
}

// SessionRow is one row of the sessions table.
type SessionRow struct {
	ID        pgtype.UUID
	Situation pgtype.Text
	Metadata  []byte
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

// AgentRow is one agent row joined through session membership.
// DefaultSettings holds the agent's stored settings as JSONB.
type AgentRow struct {
	ID              pgtype.UUID
	Name            pgtype.Text
	About           pgtype.Text
	Model           pgtype.Text
	DefaultSettings []byte
	CreatedAt       pgtype.Timestamptz
	UpdatedAt       pgtype.Timestamptz
}

// UserRow is one user row joined through session membership.
type UserRow struct {
	ID        pgtype.UUID
	Name      pgtype.Text
	About     pgtype.Text
	Metadata  []byte
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

// ToolRow is one tool row scoped to an agent.
type ToolRow struct {
	ID          pgtype.UUID
	Type        pgtype.Text
	Name        pgtype.Text
	Description pgtype.Text
	Parameters  []byte
}

// Store loads chat contexts from the database.
// Safe for concurrent use as long as the Querier is.
type Store struct {
	querier Querier
	logger  *slog.Logger
}

// New creates a Store. A nil logger falls back to slog.Default().
func New(querier Querier, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{querier: querier, logger: logger}
}

// ChatContext loads everything the given session can see and returns a
// validated chat context with settings still unmerged.
//
// Toolsets are built in agent order, one per agent, so the result always
// satisfies chatctx.New's coverage contract (an agent with no stored tools
// gets an empty toolset).
func (s *Store) ChatContext(ctx context.Context, sessionID uuid.UUID) (*chatctx.Context, error) {
	id := pgUUID(sessionID)

	sessRow, err := s.querier.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, fmt.Errorf("session %s: %w", sessionID, ErrSessionNotFound)
		}
		return nil, fmt.Errorf("loading session %s: %w", sessionID, err)
	}

	agentRows, err := s.querier.ListSessionAgents(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading agents for session %s: %w", sessionID, err)
	}

	userRows, err := s.querier.ListSessionUsers(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading users for session %s: %w", sessionID, err)
	}

	session, err := sessionFromRow(sessRow)
	if err != nil {
		return nil, fmt.Errorf("decoding session %s: %w", sessionID, err)
	}

	agents := make([]schema.Agent, len(agentRows))
	toolsets := make([]schema.Toolset, len(agentRows))
	for i, row := range agentRows {
		agent, err := agentFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("decoding agent %s: %w", uuidFromPg(row.ID), err)
		}
		agents[i] = agent

		toolRows, err := s.querier.ListAgentTools(ctx, row.ID)
		if err != nil {
			return nil, fmt.Errorf("loading tools for agent %s: %w", agent.ID, err)
		}
		tools := make([]schema.Tool, len(toolRows))
		for j, tr := range toolRows {
			tool, err := toolFromRow(tr)
			if err != nil {
				return nil, fmt.Errorf("decoding tool %s: %w", uuidFromPg(tr.ID), err)
			}
			tools[j] = tool
		}
		toolsets[i] = schema.Toolset{AgentID: agent.ID, Tools: tools}
	}

	users := make([]schema.User, len(userRows))
	for i, row := range userRows {
		user, err := userFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("decoding user %s: %w", uuidFromPg(row.ID), err)
		}
		users[i] = user
	}

	s.logger.Debug("chat context loaded",
		"session_id", sessionID,
		"agents", len(agents),
		"users", len(users))

	cc, err := chatctx.New(session, agents, users, toolsets)
	if err != nil {
		return nil, fmt.Errorf("assembling chat context for session %s: %w", sessionID, err)
	}
	return cc, nil
}

func sessionFromRow(row SessionRow) (schema.Session, error) {
	metadata, err := decodeMap(row.Metadata)
	if err != nil {
		return schema.Session{}, fmt.Errorf("metadata: %w", err)
	}
	return schema.Session{
		ID:        uuidFromPg(row.ID),
		Situation: row.Situation.String,
		Metadata:  metadata,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}, nil
}

func agentFromRow(row AgentRow) (schema.Agent, error) {
	var settings schema.ChatSettings
	if len(row.DefaultSettings) > 0 {
		if err := json.Unmarshal(row.DefaultSettings, &settings); err != nil {
			return schema.Agent{}, fmt.Errorf("default_settings: %w", err)
		}
	}
	return schema.Agent{
		ID:              uuidFromPg(row.ID),
		Name:            row.Name.String,
		About:           row.About.String,
		Model:           row.Model.String,
		DefaultSettings: settings,
		CreatedAt:       row.CreatedAt.Time,
		UpdatedAt:       row.UpdatedAt.Time,
	}, nil
}

func userFromRow(row UserRow) (schema.User, error) {
	metadata, err := decodeMap(row.Metadata)
	if err != nil {
		return schema.User{}, fmt.Errorf("metadata: %w", err)
	}
	return schema.User{
		ID:        uuidFromPg(row.ID),
		Name:      row.Name.String,
		About:     row.About.String,
		Metadata:  metadata,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}, nil
}

func toolFromRow(row ToolRow) (schema.Tool, error) {
	params, err := decodeMap(row.Parameters)
	if err != nil {
		return schema.Tool{}, fmt.Errorf("parameters: %w", err)
	}
	return schema.Tool{
		ID:          uuidFromPg(row.ID),
		Type:        row.Type.String,
		Name:        row.Name.String,
		Description: row.Description.String,
		Parameters:  params,
	}, nil
}

// decodeMap unmarshals a JSONB column into a map; empty columns yield nil.
func decodeMap(data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// pgUUID converts a uuid.UUID to its pgtype representation.
func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

// uuidFromPg converts a pgtype.UUID back; invalid values become uuid.Nil.
func uuidFromPg(id pgtype.UUID) uuid.UUID {
	if !id.Valid {
		return uuid.Nil
	}
	return uuid.UUID(id.Bytes)
}
