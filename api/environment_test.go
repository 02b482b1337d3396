package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koopa0/chatctx/internal/chatctx"
	"github.com/koopa0/chatctx/internal/log"
	"github.com/koopa0/chatctx/internal/schema"
	"github.com/koopa0/chatctx/internal/store"
)

func ptr[T any](v T) *T { return &v }

// fakeLoader returns a freshly built context per call, the way the real
// store does, so MergeSettings mutation never leaks between requests.
type fakeLoader struct {
	sessionID uuid.UUID
	agentID   uuid.UUID
	err       error
}

func (f *fakeLoader) ChatContext(_ context.Context, sessionID uuid.UUID) (*chatctx.Context, error) {
	if f.err != nil {
		return nil, f.err
	}
	if sessionID != f.sessionID {
		return nil, fmt.Errorf("session %s: %w", sessionID, store.ErrSessionNotFound)
	}
	return chatctx.New(
		schema.Session{ID: sessionID, Situation: "demo"},
		[]schema.Agent{{
			ID:   f.agentID,
			Name: "guide",
			DefaultSettings: schema.ChatSettings{
				Model:       ptr("gemini-2.5-flash"),
				Temperature: ptr(0.7),
			},
		}},
		nil,
		[]schema.Toolset{{AgentID: f.agentID, Tools: []schema.Tool{
			{ID: uuid.New(), Name: "lookup_docs", Type: "function"},
		}}},
	)
}

func newTestMux(loader ContextLoader) *http.ServeMux {
	mux := http.NewServeMux()
	NewEnvironmentHandler(loader, log.NewNop()).RegisterRoutes(mux)
	return mux
}

func postEnvironment(t *testing.T, mux *http.ServeMux, sessionID, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost,
		"/api/sessions/"+sessionID+"/environment", strings.NewReader(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestEnvironmentHandler_Create(t *testing.T) {
	loader := &fakeLoader{sessionID: uuid.New(), agentID: uuid.New()}
	mux := newTestMux(loader)

	t.Run("returns the merged snapshot", func(t *testing.T) {
		w := postEnvironment(t, mux, loader.sessionID.String(), `{"temperature": 0.1}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var env map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))

		for _, key := range []string{"session", "agents", "current_agent", "users", "settings", "tools"} {
			assert.Contains(t, env, key)
		}

		settings, ok := env["settings"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, 0.1, settings["temperature"], "request settings must win")
		assert.Equal(t, "gemini-2.5-flash", settings["model"], "agent defaults must survive")
	})

	t.Run("empty body merges pure defaults", func(t *testing.T) {
		w := postEnvironment(t, mux, loader.sessionID.String(), "")

		require.Equal(t, http.StatusOK, w.Code)

		var env map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		settings := env["settings"].(map[string]any)
		assert.Equal(t, 0.7, settings["temperature"])
	})

	t.Run("unknown session is 404", func(t *testing.T) {
		w := postEnvironment(t, mux, uuid.NewString(), `{}`)

		require.Equal(t, http.StatusNotFound, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "SESSION_NOT_FOUND", resp.Error)
	})

	t.Run("unknown agent is 422 with diagnostics", func(t *testing.T) {
		unknown := uuid.New()
		body := fmt.Sprintf(`{"agent": %q}`, unknown)

		w := postEnvironment(t, mux, loader.sessionID.String(), body)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "UNKNOWN_AGENT", resp.Error)
		assert.Contains(t, resp.Message, unknown.String())
		assert.Contains(t, resp.Message, loader.agentID.String(),
			"diagnostics should list the valid ids")
	})

	t.Run("malformed session id is 400", func(t *testing.T) {
		w := postEnvironment(t, mux, "not-a-uuid", `{}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed body is 400", func(t *testing.T) {
		w := postEnvironment(t, mux, loader.sessionID.String(), `{broken`)

		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("loader failure is 500", func(t *testing.T) {
		failing := newTestMux(&fakeLoader{err: fmt.Errorf("connection refused")})

		w := postEnvironment(t, failing, uuid.NewString(), `{}`)

		require.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("nil loader is 500", func(t *testing.T) {
		w := postEnvironment(t, newTestMux(nil), uuid.NewString(), `{}`)

		require.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
