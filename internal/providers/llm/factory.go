package llm

import (
	"context"
	"fmt"

	"github.com/sandevgo/pepebot/internal/config"
	"github.com/sandevgo/pepebot/internal/core"
	"github.com/sandevgo/pepebot/pkg/log"
)

// NewProvider creates the configured completion provider.
func NewProvider(ctx context.Context, provider string, cfg *config.LLMConfig) (core.Completer, error) {
	log.FromCtx(ctx).Info().
		Str("provider", provider).
		Str("model", cfg.Model).
		Msg("starting llm provider")

	switch provider {
	case "openrouter":
		return NewOpenRouter(cfg.APIKey, cfg.Model), nil
	case "custom":
		return NewCustomOpenAI(cfg.BaseURL, cfg.APIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", provider)
	}
}
