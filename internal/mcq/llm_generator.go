package mcq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/quizadv/quizadv/internal/llm"
)

// LLMGenerator implements Generator using an LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// Generate requests one question and parses the reply. A reply the
// transport rejected against QuestionSchema is still parsed, so the
// validator chain decides what is wrong with it.
func (g *LLMGenerator) Generate(ctx context.Context, input GenerateInput) (Payload, error) {
	req := llm.Request{
		Purpose:     Purpose,
		System:      systemPrompt,
		Prompt:      buildUserMessage(input, g.config),
		Schema:      QuestionSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	c, err := g.provider.Complete(ctx, req)
	var invalid *llm.ErrInvalidResponse
	switch {
	case errors.As(err, &invalid) && invalid.Text != "":
		return ExtractPayload([]byte(invalid.Text))
	case err != nil:
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}
	return ExtractPayload([]byte(c.Text))
}

// objectPattern finds the outermost brace-delimited span across lines.
var objectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// ExtractPayload parses generator output. It accepts a bare JSON object, a
// JSON string whose value is an object, or free text with one embedded
// object.
func ExtractPayload(content []byte) (Payload, error) {
	text := content
	var s string
	if err := json.Unmarshal(content, &s); err == nil {
		text = []byte(s)
	}

	p, err := ParsePayload(text)
	if err == nil {
		return p, nil
	}

	match := objectPattern.Find(text)
	if match == nil {
		return nil, &GenerationError{Content: string(content), Err: errors.New("no JSON object found")}
	}
	p, err = ParsePayload(match)
	if err != nil {
		return nil, &GenerationError{Content: string(content), Err: err}
	}
	return p, nil
}
