package schema

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func ptr[T any](v T) *T { return &v }

func TestChatSettingsOverride(t *testing.T) {
	base := ChatSettings{
		Model:       ptr("gemini-2.5-flash"),
		Temperature: ptr(0.7),
		MaxTokens:   ptr(2048),
	}

	t.Run("set fields win", func(t *testing.T) {
		got := base.Override(ChatSettings{Temperature: ptr(0.2)})

		if got.Temperature == nil || *got.Temperature != 0.2 {
			t.Errorf("Temperature = %v, want 0.2", got.Temperature)
		}
		if got.Model == nil || *got.Model != "gemini-2.5-flash" {
			t.Errorf("Model = %v, want base value preserved", got.Model)
		}
		if got.MaxTokens == nil || *got.MaxTokens != 2048 {
			t.Errorf("MaxTokens = %v, want base value preserved", got.MaxTokens)
		}
	})

	t.Run("unset fields are transparent", func(t *testing.T) {
		got := base.Override(ChatSettings{})

		if !reflect.DeepEqual(got, base) {
			t.Errorf("Override(empty) = %+v, want base unchanged %+v", got, base)
		}
	})

	t.Run("base is not modified", func(t *testing.T) {
		_ = base.Override(ChatSettings{Model: ptr("other")})

		if *base.Model != "gemini-2.5-flash" {
			t.Errorf("base mutated: Model = %q", *base.Model)
		}
	})

	t.Run("agent id overrides", func(t *testing.T) {
		id := uuid.New()
		got := base.Override(ChatSettings{Agent: &id})

		if got.Agent == nil || *got.Agent != id {
			t.Errorf("Agent = %v, want %v", got.Agent, id)
		}
	})

	t.Run("empty non-nil stop clears defaults", func(t *testing.T) {
		withStop := base
		withStop.Stop = []string{"###"}

		got := withStop.Override(ChatSettings{Stop: []string{}})
		if got.Stop == nil || len(got.Stop) != 0 {
			t.Errorf("Stop = %v, want explicit empty slice", got.Stop)
		}
	})
}

func TestChatSettingsFields(t *testing.T) {
	t.Run("empty settings have no fields", func(t *testing.T) {
		if got := (ChatSettings{}).Fields(); len(got) != 0 {
			t.Errorf("Fields() = %v, want empty", got)
		}
	})

	t.Run("only set fields appear", func(t *testing.T) {
		s := ChatSettings{Temperature: ptr(0.5), Stream: ptr(true)}

		got := s.Fields()
		want := map[string]any{"temperature": 0.5, "stream": true}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Fields() = %v, want %v", got, want)
		}
	})
}

func TestChatSettingsDocument(t *testing.T) {
	s := ChatSettings{Model: ptr("m"), MaxTokens: ptr(100)}

	doc := s.Document()

	// All wire keys present, unset ones nil.
	for _, key := range []string{
		"agent", "model", "temperature", "top_p", "max_tokens",
		"frequency_penalty", "presence_penalty", "repetition_penalty",
		"seed", "stream", "stop",
	} {
		if _, ok := doc[key]; !ok {
			t.Errorf("Document() missing key %q", key)
		}
	}
	if doc["model"] != "m" {
		t.Errorf("Document()[model] = %v, want m", doc["model"])
	}
	if doc["temperature"] != nil {
		t.Errorf("Document()[temperature] = %v, want nil", doc["temperature"])
	}
}

func TestSessionSettingsRoundTrip(t *testing.T) {
	s := ChatSettings{Temperature: ptr(0.9)}

	got := SessionSettings(s).Chat()
	if !reflect.DeepEqual(got, s) {
		t.Errorf("SessionSettings round trip = %+v, want %+v", got, s)
	}
}
