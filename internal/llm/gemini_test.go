package llm

import (
	"testing"

	"google.golang.org/genai"
)

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{"type": "string", "description": "text"},
			"choices": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"answer_index": map[string]any{"type": "integer"},
			"level":        map[string]any{"type": "string", "enum": []any{"easy", "medium", "hard"}},
		},
		"required": []any{"question", "choices", "answer_index"},
	})

	if s.Type != genai.TypeObject {
		t.Fatalf("Type = %s", s.Type)
	}
	if len(s.Properties) != 4 {
		t.Fatalf("expected 4 properties, got %d", len(s.Properties))
	}
	if q := s.Properties["question"]; q.Type != genai.TypeString || q.Description != "text" {
		t.Errorf("question = %+v", q)
	}
	if c := s.Properties["choices"]; c.Type != genai.TypeArray || c.Items.Type != genai.TypeString {
		t.Errorf("choices = %+v", c)
	}
	if s.Properties["answer_index"].Type != genai.TypeInteger {
		t.Errorf("answer_index type = %s", s.Properties["answer_index"].Type)
	}
	if len(s.Properties["level"].Enum) != 3 {
		t.Errorf("enum = %v", s.Properties["level"].Enum)
	}
	if len(s.Required) != 3 {
		t.Errorf("required = %v", s.Required)
	}
}

func TestGeminiSchema_UnknownType(t *testing.T) {
	if s := geminiSchema(map[string]any{"type": "null"}); s.Type != genai.TypeString {
		t.Errorf("Type = %s, want STRING fallback", s.Type)
	}
}

func TestStringList(t *testing.T) {
	if got := stringList([]string{"a", "b"}); len(got) != 2 {
		t.Errorf("[]string: %v", got)
	}
	if got := stringList([]any{"a", 1, "b"}); len(got) != 2 {
		t.Errorf("[]any: %v", got)
	}
	if got := stringList(nil); got != nil {
		t.Errorf("nil: %v", got)
	}
}

func TestNewGeminiProvider_RequiresKey(t *testing.T) {
	if _, err := NewGeminiProvider(t.Context(), GeminiConfig{Model: "gemini-flash"}); err == nil {
		t.Fatal("expected error for empty API key")
	}
}
