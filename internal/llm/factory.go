package llm

import (
	"context"

	"github.com/jtblnchrd-eng/AutoContent/internal/config"
	"github.com/jtblnchrd-eng/AutoContent/internal/ratelimit"
)

// NewFromConfig builds the configured backend wrapped in Resilient.
// The returned close func releases backend resources and is never nil.
func NewFromConfig(ctx context.Context, cfg *config.Config, budget *ratelimit.LLMBudget) (*Resilient, func(), error) {
	switch cfg.LLMProvider {
	case config.ProviderGemini:
		client, err := NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, func() {}, err
		}
		return NewResilient(client, budget, cfg.LLMRetryDelay), func() { _ = client.Close() }, nil
	default:
		client := NewOpenAIClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel)
		return NewResilient(client, budget, cfg.LLMRetryDelay), func() {}, nil
	}
}
