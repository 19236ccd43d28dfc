package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/agenthands/bookgraph/internal/config"
)

// NewClient builds the configured provider and, when enabled, wraps it in a
// circuit breaker.
func NewClient(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (LLMClient, error) {
	provider := strings.ToLower(cfg.Provider)

	var client LLMClient
	switch provider {
	case "openai":
		client = NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.BaseURL)

	case "gemini":
		c, err := NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		client = c

	case "claude":
		client = NewClaudeClient(cfg.APIKey, cfg.Model, cfg.BaseURL)

	case "ollama":
		// Ollama is reached through its OpenAI-compatible API.
		baseURL := cfg.BaseURL
		if !strings.HasSuffix(baseURL, "/v1") {
			baseURL = fmt.Sprintf("%s/v1", strings.TrimRight(baseURL, "/"))
		}
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = "ollama" // ignored by Ollama, required by the client
		}
		if logger != nil {
			logger.Info("using ollama via OpenAI-compatible API", zap.String("base_url", baseURL))
		}
		client = NewOpenAIClient(apiKey, cfg.Model, baseURL)

	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", provider)
	}

	if cfg.CircuitBreaker.Enabled {
		client = NewCircuitBreakerClient(client, cfg.CircuitBreaker, provider, logger)
	}
	return client, nil
}
