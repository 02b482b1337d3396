// Package schema defines the record types that describe one conversational
// session: the session itself, its agents and users, and the tools scoped to
// each agent.
//
// Every record implements Document(), a deep conversion to plain
// primitive/map/list form. Document output is the only shape that crosses the
// module boundary (see chatctx.Environment); downstream consumers never see
// the Go structs.
package schema

import (
	"time"

	"github.com/google/uuid"
)

// Session is the conversation record shared by all participants.
type Session struct {
	ID        uuid.UUID
	Situation string
	Metadata  map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Document converts the session to plain structural data.
func (s Session) Document() map[string]any {
	return map[string]any{
		"id":         s.ID.String(),
		"situation":  s.Situation,
		"metadata":   s.Metadata,
		"created_at": timestamp(s.CreatedAt),
		"updated_at": timestamp(s.UpdatedAt),
	}
}

// Agent is one assistant participating in a session. DefaultSettings is the
// base layer for the per-request settings merge.
type Agent struct {
	ID              uuid.UUID
	Name            string
	About           string
	Model           string
	DefaultSettings ChatSettings
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Document converts the agent to plain structural data.
func (a Agent) Document() map[string]any {
	return map[string]any{
		"id":               a.ID.String(),
		"name":             a.Name,
		"about":            a.About,
		"model":            a.Model,
		"default_settings": a.DefaultSettings.Document(),
		"created_at":       timestamp(a.CreatedAt),
		"updated_at":       timestamp(a.UpdatedAt),
	}
}

// User is one human participant in a session.
type User struct {
	ID        uuid.UUID
	Name      string
	About     string
	Metadata  map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Document converts the user to plain structural data.
func (u User) Document() map[string]any {
	return map[string]any{
		"id":         u.ID.String(),
		"name":       u.Name,
		"about":      u.About,
		"metadata":   u.Metadata,
		"created_at": timestamp(u.CreatedAt),
		"updated_at": timestamp(u.UpdatedAt),
	}
}

// Tool describes one capability available to an agent. Parameters holds the
// tool's JSON-schema parameter definition as already-plain data.
type Tool struct {
	ID          uuid.UUID
	Type        string
	Name        string
	Description string
	Parameters  map[string]any
}

// Document converts the tool to plain structural data.
func (t Tool) Document() map[string]any {
	return map[string]any{
		"id":          t.ID.String(),
		"type":        t.Type,
		"name":        t.Name,
		"description": t.Description,
		"parameters":  t.Parameters,
	}
}

// Toolset pairs one agent with the ordered tools available to it.
// At most one toolset is expected per agent id within a session.
type Toolset struct {
	AgentID uuid.UUID
	Tools   []Tool
}

// timestamp renders a time in the wire format used across all documents.
// Zero times render as nil rather than the zero-value sentinel string.
func timestamp(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}
