package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rotisserie/eris"

	"github.com/gtr-comics/comic-grader/internal/monitoring"
	"github.com/gtr-comics/comic-grader/internal/prompt"
	"github.com/gtr-comics/comic-grader/internal/provider"
	"github.com/gtr-comics/comic-grader/internal/store"
)

// openStore opens and migrates the configured report store.
func openStore(ctx context.Context) (store.Store, error) {
	var st store.Store
	var err error

	switch cfg.Store.Driver {
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	case "", "sqlite":
		st, err = store.NewSQLite(cfg.Store.Path)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// buildDispatcher wires the configured providers into a dispatcher.
func buildDispatcher() (*provider.Dispatcher, error) {
	systemPrompt, err := prompt.Load(cfg.Prompt.Path)
	if err != nil {
		return nil, err
	}

	registry := provider.NewRegistry()
	registry.Register(provider.NewAnthropicProvider(cfg.Anthropic.Key, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens, systemPrompt))
	registry.Register(provider.NewOpenAIProvider(cfg.OpenAI.Key, cfg.OpenAI.BaseURL, cfg.OpenAI.Model, systemPrompt))
	registry.Register(provider.NewGeminiProvider(cfg.Gemini.Key, cfg.Gemini.Model, systemPrompt))
	registry.Register(provider.NewOllamaProvider(cfg.Ollama.BaseURL, cfg.Ollama.Model, systemPrompt))

	metrics := monitoring.New(prometheus.DefaultRegisterer)

	return provider.NewDispatcher(registry, metrics, provider.DispatcherConfig{
		MaxAttempts:      cfg.Dispatch.MaxAttempts,
		RatePerSecond:    cfg.Dispatch.RatePerSecond,
		RateBurst:        cfg.Dispatch.RateBurst,
		BreakerThreshold: cfg.Dispatch.BreakerThreshold,
	}), nil
}
