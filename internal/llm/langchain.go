package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
)

// LangChainProvider runs prompts through a langchaingo model. The model
// only offers a JSON mode, so a schema is spelled out in the system
// message and enforced locally.
type LangChainProvider struct {
	model   llms.Model
	modelID string
}

// NewLangChainProvider creates a provider for an OpenAI-compatible
// endpoint through langchaingo.
func NewLangChainProvider(cfg LangChainConfig) (*LangChainProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("langchain API key is required")
	}

	opts := []lcopenai.Option{
		lcopenai.WithToken(cfg.APIKey),
		lcopenai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, lcopenai.WithBaseURL(cfg.BaseURL))
	}

	model, err := lcopenai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create langchain model: %w", err)
	}
	return &LangChainProvider{model: model, modelID: cfg.Model}, nil
}

func (p *LangChainProvider) Complete(ctx context.Context, req Request) (*Completion, error) {
	system, err := langChainSystem(req)
	if err != nil {
		return nil, err
	}
	var messages []llms.MessageContent
	if system != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, system))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, req.Prompt))

	opts := []llms.CallOption{llms.WithTemperature(req.Temperature)}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}
	if req.Schema != nil {
		opts = append(opts, llms.WithJSONMode())
	}

	resp, err := p.model.GenerateContent(ctx, messages, opts...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &ErrProviderUnavailable{Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("no choices in langchain response")}
	}

	choice := resp.Choices[0]
	if choice.StopReason == "length" {
		return nil, &ErrMaxTokensExceeded{Text: choice.Content}
	}
	if err := check(req.Schema, choice.Content); err != nil {
		return nil, err
	}
	return &Completion{
		Text:  choice.Content,
		Usage: langChainUsage(choice.GenerationInfo),
		Model: p.modelID,
		Stop:  StopEnd,
	}, nil
}

func (p *LangChainProvider) Model() string { return p.modelID }

func langChainSystem(req Request) (string, error) {
	if req.Schema == nil {
		return req.System, nil
	}
	def, err := req.Schema.JSON()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s\n\nRespond with a single JSON object (%s) matching this JSON Schema:\n%s",
		req.System, req.Schema.Description, def), nil
}

// langChainUsage reads token counts from the generation info map.
func langChainUsage(info map[string]any) Usage {
	count := func(key string) int {
		switch v := info[key].(type) {
		case int:
			return v
		case int64:
			return int(v)
		case float64:
			return int(v)
		}
		return 0
	}
	return Usage{
		InputTokens:  count("PromptTokens"),
		OutputTokens: count("CompletionTokens"),
	}
}
