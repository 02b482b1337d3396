package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/koopa0/chatctx/internal/chatctx"
	"github.com/koopa0/chatctx/internal/log"
	"github.com/koopa0/chatctx/internal/schema"
	"github.com/koopa0/chatctx/internal/store"
)

// ContextLoader loads the chat context for one session.
// Defined here, by the consumer; satisfied by *store.Store.
type ContextLoader interface {
	ChatContext(ctx context.Context, sessionID uuid.UUID) (*chatctx.Context, error)
}

// EnvironmentHandler serves the environment snapshot endpoint.
type EnvironmentHandler struct {
	loader ContextLoader
	logger log.Logger
}

// NewEnvironmentHandler creates an environment handler.
func NewEnvironmentHandler(loader ContextLoader, logger log.Logger) *EnvironmentHandler {
	return &EnvironmentHandler{loader: loader, logger: logger}
}

// RegisterRoutes registers environment routes on the given mux.
func (h *EnvironmentHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/sessions/{id}/environment", h.create)
}

// create loads the session's context, merges the request body's settings over
// the active agent's defaults, and returns the flattened environment.
//
// Request body: ChatSettings JSON; an empty body means "no overrides".
// Responses: 200 with the snapshot; 400 for a bad id or body; 404 for an
// unknown session; 422 when the payload references an unknown agent or the
// context violates its toolset contract.
func (h *EnvironmentHandler) create(w http.ResponseWriter, r *http.Request) {
	if h.loader == nil {
		h.logger.Error("context loader is nil")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "INVALID_SESSION_ID",
			"session id must be a UUID")
		return
	}

	var settings schema.ChatSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, h.logger, http.StatusBadRequest, "INVALID_BODY",
			"request body must be a chat settings object")
		return
	}

	cc, err := h.loader.ChatContext(r.Context(), sessionID)
	if err != nil {
		h.writeContextError(w, sessionID, err)
		return
	}

	if err := cc.MergeSettings(settings); err != nil {
		h.writeContextError(w, sessionID, err)
		return
	}

	env, err := cc.Environment()
	if err != nil {
		h.writeContextError(w, sessionID, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, env)
}

// writeContextError maps domain errors onto HTTP statuses.
func (h *EnvironmentHandler) writeContextError(w http.ResponseWriter, sessionID uuid.UUID, err error) {
	var unknownAgent *chatctx.UnknownAgentError
	var missingToolset *chatctx.MissingToolsetError

	switch {
	case errors.Is(err, store.ErrSessionNotFound):
		writeError(w, h.logger, http.StatusNotFound, "SESSION_NOT_FOUND", err.Error())
	case errors.As(err, &unknownAgent):
		writeError(w, h.logger, http.StatusUnprocessableEntity, "UNKNOWN_AGENT", err.Error())
	case errors.As(err, &missingToolset), errors.Is(err, chatctx.ErrNoAgents),
		errors.Is(err, chatctx.ErrSettingsNotMerged):
		writeError(w, h.logger, http.StatusUnprocessableEntity, "INVALID_SESSION_STATE", err.Error())
	default:
		h.logger.Error("building environment failed", "session_id", sessionID, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "INTERNAL", "internal server error")
	}
}
