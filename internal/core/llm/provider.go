package llm

import (
	"context"
	"fmt"

	"github.com/markdave123-py/paperdigest/internal/config"
	"github.com/markdave123-py/paperdigest/internal/core"
)

// NewProvider builds the model client selected by MODEL_PROVIDER.
func NewProvider(ctx context.Context, cfg *config.Config) (core.LLMProvider, error) {
	switch cfg.ModelProvider {
	case config.ProviderOllama:
		return NewOllamaLLM(cfg.ModelBaseURL, cfg.ModelName, cfg.ModelTimeout), nil
	case config.ProviderOpenAI:
		return NewOpenAILLM(cfg.ModelBaseURL, cfg.ModelAPIKey, cfg.ModelName, cfg.ModelTimeout), nil
	case config.ProviderGemini:
		return NewGeminiLLM(ctx, cfg.GeminiAPIKey, cfg.ModelName, cfg.ModelTimeout)
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.ModelProvider)
	}
}
