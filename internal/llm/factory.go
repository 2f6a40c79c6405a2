package llm

import (
	"context"
	"fmt"

	"github.com/quizadv/quizadv/internal/store"
)

// NewProvider creates the configured vendor provider wrapped, outermost
// first, in timeout, retry and audit middleware. Nothing is recorded
// when eventRepo is nil. The "fake" provider is returned bare.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error
	switch cfg.Provider {
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "langchain":
		base, err = NewLangChainProvider(cfg.LangChain)
	case "fake":
		return NewFake(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	var mw []Middleware
	if cfg.Timeout > 0 {
		mw = append(mw, Timeout(cfg.Timeout))
	}
	mw = append(mw, Retry(cfg.Retry))
	if eventRepo != nil {
		mw = append(mw, Record(cfg.Provider, eventRepo))
	}
	return Chain(base, mw...), nil
}

// NewProviderFromEnv uses QUIZADV_LLM_PROVIDER when it is set and
// otherwise discovers a provider from the standard API key variables.
func NewProviderFromEnv(ctx context.Context, eventRepo store.EventRepo) (Provider, error) {
	cfg, err := ResolveConfig()
	if err != nil {
		return nil, err
	}
	return NewProvider(ctx, cfg, eventRepo)
}

// ResolveConfig picks the environment configuration NewProviderFromEnv
// would use.
func ResolveConfig() (Config, error) {
	cfg := ConfigFromEnv()
	if err := cfg.Validate(); err == nil {
		return cfg, nil
	} else if explicitProvider() {
		return Config{}, err
	}

	discovered, ok := DiscoverConfig()
	if !ok {
		return Config{}, fmt.Errorf("no API key found: set %sLLM_PROVIDER with a matching key or OPENAI_API_KEY", EnvPrefix)
	}
	discovered.Timeout = cfg.Timeout
	return discovered, nil
}
