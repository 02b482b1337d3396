package chatctx

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Sentinel errors for chat context operations.
// These are part of the package's public API and should be checked with errors.Is().
var (
	// ErrNoAgents indicates the context was built without any agents, so no
	// default agent exists to fall back to.
	ErrNoAgents = errors.New("chat context has no agents")

	// ErrSettingsNotMerged indicates Environment was called before
	// MergeSettings populated the session settings.
	ErrSettingsNotMerged = errors.New("chat settings not merged")
)

// UnknownAgentError reports a requested agent id that is not among the
// session's agents. Valid carries the full id set for diagnostics.
type UnknownAgentError struct {
	Requested uuid.UUID
	Valid     []uuid.UUID
}

func (e *UnknownAgentError) Error() string {
	ids := make([]string, len(e.Valid))
	for i, id := range e.Valid {
		ids[i] = id.String()
	}
	return fmt.Sprintf("agent %s not found in session agents: [%s]",
		e.Requested, strings.Join(ids, ", "))
}

// MissingToolsetError reports an active agent with no registered toolset.
// Every agent in a session is expected to have exactly one.
type MissingToolsetError struct {
	AgentID uuid.UUID
}

func (e *MissingToolsetError) Error() string {
	return fmt.Sprintf("no toolset registered for agent %s", e.AgentID)
}
