package schema

import "github.com/google/uuid"

// ChatSettings carries the generation controls for one chat turn.
//
// Every overridable field is a pointer: nil means "not explicitly set", which
// is how the settings merge distinguishes caller-supplied values from values
// left at their implicit default. JSON decoding preserves this naturally,
// since absent keys stay nil.
type ChatSettings struct {
	// Agent selects the active agent for the turn. Nil falls back to the
	// session's first agent.
	Agent *uuid.UUID `json:"agent,omitempty"`

	Model             *string  `json:"model,omitempty"`
	Temperature       *float64 `json:"temperature,omitempty"`
	TopP              *float64 `json:"top_p,omitempty"`
	MaxTokens         *int     `json:"max_tokens,omitempty"`
	FrequencyPenalty  *float64 `json:"frequency_penalty,omitempty"`
	PresencePenalty   *float64 `json:"presence_penalty,omitempty"`
	RepetitionPenalty *float64 `json:"repetition_penalty,omitempty"`
	Seed              *int     `json:"seed,omitempty"`
	Stream            *bool    `json:"stream,omitempty"`

	// Stop is set when non-nil; an empty non-nil slice explicitly clears
	// the default stop sequences.
	Stop []string `json:"stop,omitempty"`
}

// Override returns a copy of s with req's explicitly-set fields applied on
// top. Unset (nil) request fields are transparent: the base value survives.
// Neither input is modified.
func (s ChatSettings) Override(req ChatSettings) ChatSettings {
	out := s
	if req.Agent != nil {
		out.Agent = req.Agent
	}
	if req.Model != nil {
		out.Model = req.Model
	}
	if req.Temperature != nil {
		out.Temperature = req.Temperature
	}
	if req.TopP != nil {
		out.TopP = req.TopP
	}
	if req.MaxTokens != nil {
		out.MaxTokens = req.MaxTokens
	}
	if req.FrequencyPenalty != nil {
		out.FrequencyPenalty = req.FrequencyPenalty
	}
	if req.PresencePenalty != nil {
		out.PresencePenalty = req.PresencePenalty
	}
	if req.RepetitionPenalty != nil {
		out.RepetitionPenalty = req.RepetitionPenalty
	}
	if req.Seed != nil {
		out.Seed = req.Seed
	}
	if req.Stream != nil {
		out.Stream = req.Stream
	}
	if req.Stop != nil {
		out.Stop = req.Stop
	}
	return out
}

// Fields returns only the explicitly-set fields, keyed by wire name.
// This is the "which fields did the caller actually supply" view.
func (s ChatSettings) Fields() map[string]any {
	out := make(map[string]any)
	if s.Agent != nil {
		out["agent"] = s.Agent.String()
	}
	if s.Model != nil {
		out["model"] = *s.Model
	}
	if s.Temperature != nil {
		out["temperature"] = *s.Temperature
	}
	if s.TopP != nil {
		out["top_p"] = *s.TopP
	}
	if s.MaxTokens != nil {
		out["max_tokens"] = *s.MaxTokens
	}
	if s.FrequencyPenalty != nil {
		out["frequency_penalty"] = *s.FrequencyPenalty
	}
	if s.PresencePenalty != nil {
		out["presence_penalty"] = *s.PresencePenalty
	}
	if s.RepetitionPenalty != nil {
		out["repetition_penalty"] = *s.RepetitionPenalty
	}
	if s.Seed != nil {
		out["seed"] = *s.Seed
	}
	if s.Stream != nil {
		out["stream"] = *s.Stream
	}
	if s.Stop != nil {
		out["stop"] = append([]string(nil), s.Stop...)
	}
	return out
}

// Document converts the settings to plain structural data.
// All fields appear; unset fields render as nil.
func (s ChatSettings) Document() map[string]any {
	out := map[string]any{
		"agent":              nil,
		"model":              nil,
		"temperature":        nil,
		"top_p":              nil,
		"max_tokens":         nil,
		"frequency_penalty":  nil,
		"presence_penalty":   nil,
		"repetition_penalty": nil,
		"seed":               nil,
		"stream":             nil,
		"stop":               nil,
	}
	for k, v := range s.Fields() {
		out[k] = v
	}
	return out
}

// SessionSettings marks settings that have been resolved at the session
// level, as opposed to an agent's stored defaults. The field set is currently
// identical to ChatSettings; the distinct type exists so the two levels
// cannot be mixed up and session-level additions have a place to land.
type SessionSettings ChatSettings

// Chat converts session-level settings back to the generic settings shape.
func (s SessionSettings) Chat() ChatSettings {
	return ChatSettings(s)
}

// Document converts the settings to plain structural data.
func (s SessionSettings) Document() map[string]any {
	return ChatSettings(s).Document()
}
