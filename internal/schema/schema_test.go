package schema

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSessionDocument(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)
	s := Session{
		ID:        uuid.New(),
		Situation: "support chat",
		Metadata:  map[string]any{"channel": "web"},
		CreatedAt: created,
		UpdatedAt: created,
	}

	doc := s.Document()

	if doc["id"] != s.ID.String() {
		t.Errorf("id = %v, want %v", doc["id"], s.ID.String())
	}
	if doc["situation"] != "support chat" {
		t.Errorf("situation = %v", doc["situation"])
	}
	if doc["created_at"] != "2025-03-01T10:30:00Z" {
		t.Errorf("created_at = %v, want RFC3339 string", doc["created_at"])
	}
}

func TestAgentDocumentNestsSettings(t *testing.T) {
	a := Agent{
		ID:              uuid.New(),
		Name:            "researcher",
		DefaultSettings: ChatSettings{Temperature: ptr(0.3)},
	}

	doc := a.Document()

	settings, ok := doc["default_settings"].(map[string]any)
	if !ok {
		t.Fatalf("default_settings = %T, want map[string]any", doc["default_settings"])
	}
	if settings["temperature"] != 0.3 {
		t.Errorf("default_settings.temperature = %v, want 0.3", settings["temperature"])
	}
}

func TestZeroTimestampsRenderNil(t *testing.T) {
	doc := User{ID: uuid.New()}.Document()

	if doc["created_at"] != nil {
		t.Errorf("created_at = %v, want nil for zero time", doc["created_at"])
	}
}

// Documents must survive json.Marshal unchanged in shape: this is the
// export contract for everything downstream.
func TestDocumentsAreJSONSerializable(t *testing.T) {
	records := []map[string]any{
		Session{ID: uuid.New(), CreatedAt: time.Now()}.Document(),
		Agent{ID: uuid.New(), DefaultSettings: ChatSettings{TopP: ptr(0.9)}}.Document(),
		User{ID: uuid.New(), Metadata: map[string]any{"role": "admin"}}.Document(),
		Tool{ID: uuid.New(), Type: "function", Parameters: map[string]any{"type": "object"}}.Document(),
	}

	for i, doc := range records {
		if _, err := json.Marshal(doc); err != nil {
			t.Errorf("record %d: json.Marshal error = %v", i, err)
		}
	}
}
