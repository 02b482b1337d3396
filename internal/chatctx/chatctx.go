// Package chatctx models the context visible during one conversational turn:
// the session, its agents and users, the per-agent toolsets, and the merged
// chat settings.
//
// A Context is built fresh per request (usually via store.Store), has its
// settings merged once, is flattened into an environment snapshot, and is
// then discarded. It is not safe for concurrent use: MergeSettings mutates
// the receiver in place.
package chatctx

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/koopa0/chatctx/internal/schema"
)

// Context aggregates everything one chat turn can see.
//
// Agents is never empty for a validly constructed Context; Settings is nil
// until MergeSettings runs.
type Context struct {
	Session  schema.Session
	Agents   []schema.Agent
	Users    []schema.User
	Settings *schema.ChatSettings
	Toolsets []schema.Toolset
}

// New builds a validated Context. It enforces the construction contract the
// operations below rely on: at least one agent, and a toolset registered for
// every agent.
func New(session schema.Session, agents []schema.Agent, users []schema.User, toolsets []schema.Toolset) (*Context, error) {
	if len(agents) == 0 {
		return nil, ErrNoAgents
	}

	registered := make(map[uuid.UUID]bool, len(toolsets))
	for _, ts := range toolsets {
		registered[ts.AgentID] = true
	}
	for _, agent := range agents {
		if !registered[agent.ID] {
			return nil, fmt.Errorf("building chat context: %w", &MissingToolsetError{AgentID: agent.ID})
		}
	}

	return &Context{
		Session:  session,
		Agents:   agents,
		Users:    users,
		Toolsets: toolsets,
	}, nil
}

// ActiveAgent resolves the agent targeted by the current turn.
//
// If the merged settings (or any settings previously written) request an
// agent id, that id must belong to one of the session's agents; otherwise an
// *UnknownAgentError is returned. With no requested id the first agent wins:
// list order is the default convention, there is no flagged "default" field.
func (c *Context) ActiveAgent() (schema.Agent, error) {
	var requested *uuid.UUID
	if c.Settings != nil {
		requested = c.Settings.Agent
	}
	return c.agentFor(requested)
}

// agentFor resolves an agent by requested id, or the positional default when
// requested is nil.
func (c *Context) agentFor(requested *uuid.UUID) (schema.Agent, error) {
	if len(c.Agents) == 0 {
		return schema.Agent{}, ErrNoAgents
	}
	if requested == nil {
		return c.Agents[0], nil
	}

	for _, agent := range c.Agents {
		if agent.ID == *requested {
			return agent, nil
		}
	}

	valid := make([]uuid.UUID, len(c.Agents))
	for i, agent := range c.Agents {
		valid[i] = agent.ID
	}
	return schema.Agent{}, &UnknownAgentError{Requested: *requested, Valid: valid}
}

// MergeSettings lays req's explicitly-set fields over the active agent's
// default settings and stores the result on the Context.
//
// The precedence rule: agent defaults form the base layer, and only fields
// the caller actually supplied override it. Merging is a pure overlay of the
// same two inputs, so repeated calls with the same request are idempotent.
//
// The base defaults belong to the agent the request addresses: req's agent
// selection takes effect during this merge, not only on later reads. An
// unknown requested id fails with the same diagnostics as ActiveAgent.
func (c *Context) MergeSettings(req schema.ChatSettings) error {
	requested := req.Agent
	if requested == nil && c.Settings != nil {
		requested = c.Settings.Agent
	}

	active, err := c.agentFor(requested)
	if err != nil {
		return fmt.Errorf("merging settings: %w", err)
	}

	merged := active.DefaultSettings.Override(req)
	c.Settings = &merged
	return nil
}

// ActiveTools returns the tools of the active agent's toolset, in stored
// order. When duplicate toolsets share an agent id, the first entry in list
// order wins.
func (c *Context) ActiveTools() ([]schema.Tool, error) {
	active, err := c.ActiveAgent()
	if err != nil {
		return nil, fmt.Errorf("resolving active tools: %w", err)
	}

	for _, ts := range c.Toolsets {
		if ts.AgentID == active.ID {
			return ts.Tools, nil
		}
	}
	return nil, &MissingToolsetError{AgentID: active.ID}
}

// Environment assembles the flattened snapshot consumed downstream (prompt
// rendering, API responses). The key set is a stable contract:
//
//	session, agents, current_agent, users, settings, tools
//
// Every value is plain primitive/map/list data; no schema structs leak
// through. Settings must already be merged; no default settings object is
// synthesized here.
func (c *Context) Environment() (map[string]any, error) {
	if c.Settings == nil {
		return nil, ErrSettingsNotMerged
	}

	current, err := c.ActiveAgent()
	if err != nil {
		return nil, fmt.Errorf("building environment: %w", err)
	}
	tools, err := c.ActiveTools()
	if err != nil {
		return nil, fmt.Errorf("building environment: %w", err)
	}

	agents := make([]map[string]any, len(c.Agents))
	for i, agent := range c.Agents {
		agents[i] = agent.Document()
	}
	users := make([]map[string]any, len(c.Users))
	for i, user := range c.Users {
		users[i] = user.Document()
	}
	toolDocs := make([]map[string]any, len(tools))
	for i, tool := range tools {
		toolDocs[i] = tool.Document()
	}

	return map[string]any{
		"session":       c.Session.Document(),
		"agents":        agents,
		"current_agent": current.Document(),
		"users":         users,
		"settings":      schema.SessionSettings(*c.Settings).Document(),
		"tools":         toolDocs,
	}, nil
}
