package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/pepebot/pkg/log"
)

type LLMConfig struct {
	APIKey  string `env:"OPENROUTER_API_KEY"`
	Model   string `env:"LLM_MODEL" envDefault:"google/gemma-3-27b-it:free"`
	BaseURL string `env:"LLM_BASE_URL"`
}

func NewLLMConfig(ctx context.Context) *LLMConfig {
	c := &LLMConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse LLM config")
	}
	return c
}
