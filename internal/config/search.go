package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/pepebot/pkg/log"
)

type SearchConfig struct {
	BaseURL string `env:"SEARCH_SERVICE_URL" envDefault:"http://localhost:8400"`
}

func NewSearchConfig(ctx context.Context) *SearchConfig {
	c := &SearchConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Search config")
	}
	return c
}
