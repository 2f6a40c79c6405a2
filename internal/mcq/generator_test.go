package mcq

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/quizadv/quizadv/internal/difficulty"
	"github.com/quizadv/quizadv/internal/llm"
	"github.com/quizadv/quizadv/internal/subject"
)

func questionJSON() string {
	return `{
		"question": "Which river is the longest in India?",
		"choices": ["Ganga", "Yamuna", "Godavari", "Narmada"],
		"answer_index": 0,
		"explanation": "The Ganga runs about 2,525 km.",
		"difficulty_score": 2
	}`
}

func testInput() GenerateInput {
	return GenerateInput{
		Subject: subject.Geography,
		Level:   difficulty.Medium,
		Topic:   "Rivers",
	}
}

func TestGenerate_ReturnsPayload(t *testing.T) {
	mock := llm.NewFake(llm.Reply{Text: questionJSON()})
	gen := New(mock, DefaultConfig())

	p, err := gen.Generate(context.Background(), testInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.QuestionText() != "Which river is the longest in India?" {
		t.Errorf("unexpected question %q", p.QuestionText())
	}
	if verr := Validate(p); verr != nil {
		t.Errorf("expected valid payload, got %v", verr)
	}
}

func TestGenerate_RequestShape(t *testing.T) {
	mock := llm.NewFake(llm.Reply{Text: questionJSON()})
	gen := New(mock, DefaultConfig())

	input := testInput()
	for i := 1; i <= 12; i++ {
		input.PriorQuestions = append(input.PriorQuestions, "Q"+strings.Repeat("x", i))
	}
	if _, err := gen.Generate(context.Background(), input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reqs := mock.Requests()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 call, got %d", len(reqs))
	}
	req := reqs[0]
	if req.Schema != QuestionSchema {
		t.Error("expected QuestionSchema on the request")
	}
	if req.Temperature != 0.6 {
		t.Errorf("temperature = %v, want 0.6", req.Temperature)
	}
	if !strings.Contains(req.System, "aged 14-19") {
		t.Error("system prompt should name the audience")
	}

	if req.Purpose != Purpose {
		t.Errorf("purpose = %q, want %q", req.Purpose, Purpose)
	}

	msg := req.Prompt
	for _, want := range []string{"Subject: Geography", "Difficulty: medium", "Topic: Rivers"} {
		if !strings.Contains(msg, want) {
			t.Errorf("user message missing %q:\n%s", want, msg)
		}
	}
	// Only the last 10 prior questions are sent.
	if strings.Contains(msg, "Qx, ") || strings.Contains(msg, "Qxx, ") {
		t.Errorf("oldest prior questions should be dropped:\n%s", msg)
	}
	if !strings.Contains(msg, "Qxxx, Qxxxx") {
		t.Errorf("recent prior questions should be joined with commas:\n%s", msg)
	}
}

func TestGenerate_DefaultTopicAndNoPrior(t *testing.T) {
	mock := llm.NewFake(llm.Reply{Text: questionJSON()})
	gen := New(mock, DefaultConfig())

	if _, err := gen.Generate(context.Background(), GenerateInput{Subject: subject.Math, Level: difficulty.Easy}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	msg := mock.Requests()[0].Prompt
	if !strings.Contains(msg, "Topic: General") {
		t.Errorf("expected default topic:\n%s", msg)
	}
	if !strings.Contains(msg, "Previous questions: None") {
		t.Errorf("expected None for empty history:\n%s", msg)
	}
}

func TestGenerate_ProviderError(t *testing.T) {
	mock := llm.NewFake(llm.Reply{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}})
	gen := New(mock, DefaultConfig())

	_, err := gen.Generate(context.Background(), testInput())
	if err == nil {
		t.Fatal("expected error")
	}
	var unavail *llm.ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable in chain, got %T", err)
	}
}

func TestGenerate_SchemaRejectedReplyIsParsed(t *testing.T) {
	// A reply missing keys fails the transport schema but must reach the
	// validator chain so the round is skipped with its reason.
	mock := llm.NewFake(llm.Reply{Err: &llm.ErrInvalidResponse{
		Text: `{"question": "Q?", "choices": ["a", "b", "c", "d"]}`,
		Err:  errors.New("schema"),
	}})
	p, err := New(mock, DefaultConfig()).Generate(context.Background(), testInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	verr := Validate(p)
	if verr == nil || verr.Reason != "Missing keys" {
		t.Fatalf("expected Missing keys, got %v", verr)
	}
}

func TestGenerate_SchemaRejectedGarbage(t *testing.T) {
	mock := llm.NewFake(llm.Reply{Err: &llm.ErrInvalidResponse{Text: "sorry, I can't", Err: errors.New("invalid JSON")}})
	_, err := New(mock, DefaultConfig()).Generate(context.Background(), testInput())
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %T (%v)", err, err)
	}
}

func TestExtractPayload(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bare object", `{"question":"A?","choices":[]}`, "A?"},
		{"json string", `"{\"question\":\"B?\"}"`, "B?"},
		{"fenced", "```json\n{\"question\": \"C?\"}\n```", "C?"},
		{"prose around", "Here you go:\n{\"question\": \"D?\",\n \"choices\": [\"a\"]}\nEnjoy!", "D?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ExtractPayload([]byte(tt.content))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.QuestionText() != tt.want {
				t.Errorf("question = %q, want %q", p.QuestionText(), tt.want)
			}
		})
	}
}

func TestExtractPayload_Failures(t *testing.T) {
	for _, content := range []string{"no json here", `{"question": broken}`, `"just a string"`, `[1,2,3]`} {
		_, err := ExtractPayload([]byte(content))
		var genErr *GenerationError
		if !errors.As(err, &genErr) {
			t.Errorf("content %q: expected GenerationError, got %v", content, err)
		}
	}
}

func TestExtractPayload_KeepsIntegerness(t *testing.T) {
	p, err := ExtractPayload([]byte(`{"answer_index": 2.0}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := asInt(p[KeyAnswerIndex]); ok {
		t.Error("2.0 must not be accepted as an integer index")
	}
}

func TestBuildDedup(t *testing.T) {
	if got := buildDedup(nil, 10); got != "None" {
		t.Errorf("empty = %q", got)
	}
	if got := buildDedup([]string{"a", "b", "c"}, 2); got != "b, c" {
		t.Errorf("windowed = %q", got)
	}
	if got := buildDedup([]string{"a", "b"}, 0); got != "a, b" {
		t.Errorf("unbounded = %q", got)
	}
}
