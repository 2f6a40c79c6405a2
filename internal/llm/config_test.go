package llm

import (
	"context"
	"strings"
	"testing"
	"time"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY",
		EnvPrefix + "LLM_PROVIDER", EnvPrefix + "OPENAI_API_KEY", EnvPrefix + "LLM_TIMEOUT",
		EnvPrefix + "LANGCHAIN_API_KEY", EnvPrefix + "OPENAI_MODEL",
	} {
		t.Setenv(k, "")
	}
}

func TestConfigFromEnv(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("QUIZADV_LLM_PROVIDER", "langchain")
	t.Setenv("QUIZADV_LANGCHAIN_API_KEY", "lc-key")
	t.Setenv("QUIZADV_OPENAI_MODEL", "gpt-4.1-mini")
	t.Setenv("QUIZADV_LLM_TIMEOUT", "5s")

	cfg := ConfigFromEnv()
	if cfg.Provider != "langchain" {
		t.Errorf("provider = %q", cfg.Provider)
	}
	if cfg.LangChain.APIKey != "lc-key" {
		t.Errorf("langchain key = %q", cfg.LangChain.APIKey)
	}
	if cfg.OpenAI.Model != "gpt-4.1-mini" {
		t.Errorf("openai model = %q", cfg.OpenAI.Model)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("timeout = %v", cfg.Timeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("validate: %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != "openai" || cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestDiscoverConfig(t *testing.T) {
	clearProviderEnv(t)
	if _, ok := DiscoverConfig(); ok {
		t.Fatal("expected no provider without keys")
	}

	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("ANTHROPIC_API_KEY", "a-key")
	cfg, ok := DiscoverConfig()
	if !ok || cfg.Provider != "anthropic" {
		t.Fatalf("expected anthropic to win over gemini, got %q", cfg.Provider)
	}
}

func TestResolveConfig(t *testing.T) {
	t.Run("explicit provider without key fails", func(t *testing.T) {
		clearProviderEnv(t)
		t.Setenv("QUIZADV_LLM_PROVIDER", "openai")
		t.Setenv("OPENAI_API_KEY", "ignored")
		_, err := ResolveConfig()
		if err == nil || !strings.Contains(err.Error(), "QUIZADV_OPENAI_API_KEY") {
			t.Fatalf("expected missing key error, got %v", err)
		}
	})

	t.Run("falls back to discovery", func(t *testing.T) {
		clearProviderEnv(t)
		t.Setenv("OPENAI_API_KEY", "sk-test")
		cfg, err := ResolveConfig()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Provider != "openai" || cfg.OpenAI.APIKey != "sk-test" {
			t.Fatalf("unexpected config %+v", cfg)
		}
	})

	t.Run("nothing configured", func(t *testing.T) {
		clearProviderEnv(t)
		if _, err := ResolveConfig(); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestNewProvider_Fake(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: "fake"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*Fake); !ok {
		t.Fatalf("expected bare *Fake, got %T", p)
	}
}

func TestNewProvider_WrapsMiddleware(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "openrouter"
	cfg.OpenRouter.APIKey = "sk-or-test"

	p, err := NewProvider(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*timeoutProvider); !ok {
		t.Fatalf("expected timeout decorator outermost, got %T", p)
	}
	if p.Model() != "openai/gpt-4o-mini" {
		t.Fatalf("model = %q", p.Model())
	}

	cfg.Timeout = 0
	p, err = NewProvider(context.Background(), cfg, &recordingRepo{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	retry, ok := p.(*retryProvider)
	if !ok {
		t.Fatalf("expected retry outermost without a timeout, got %T", p)
	}
	if _, ok := retry.next.(*recordingProvider); !ok {
		t.Fatalf("expected audit inside retry, got %T", retry.next)
	}
}

func TestNewProvider_MissingKey(t *testing.T) {
	if _, err := NewProvider(context.Background(), Config{Provider: "gemini"}, nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestLookupCost(t *testing.T) {
	if c := LookupCost("gpt-4o-mini"); c == nil || c.InputPerMTok != 0.15 {
		t.Fatalf("unexpected cost %+v", c)
	}
	if c := LookupCost("openai/gpt-4o-mini"); c == nil {
		t.Fatal("expected vendor-prefixed lookup to resolve")
	}
	if c := LookupCost("unknown-model"); c != nil {
		t.Fatalf("expected nil, got %+v", c)
	}
	cost := ModelCost{InputPerMTok: 1, OutputPerMTok: 2}.Cost(1_000_000, 500_000)
	if cost != 2 {
		t.Fatalf("cost = %v, want 2", cost)
	}
}
