package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/pepebot/pkg/log"
)

type RoutingConfig struct {
	// Classifier
	ClassifierTimeout time.Duration `env:"CLASSIFIER_TIMEOUT" envDefault:"5s"`
	TranscriptTurns   int           `env:"TRANSCRIPT_TURNS" envDefault:"20"`
	TranscriptTokens  int           `env:"TRANSCRIPT_TOKEN_BUDGET" envDefault:"1500"`

	// Fast path
	FastPathMargin float64 `env:"FASTPATH_MARGIN" envDefault:"0.15"`

	// Selection
	SelectCount int     `env:"SELECT_COUNT" envDefault:"6"`
	MMRLambda   float64 `env:"MMR_LAMBDA" envDefault:"0.7"`

	// Freshness
	FreshnessCapacity int           `env:"FRESHNESS_CAPACITY" envDefault:"50"`
	FreshnessWindow   time.Duration `env:"FRESHNESS_WINDOW" envDefault:"30m"`
	FreshnessMinHits  int           `env:"FRESHNESS_MIN_HITS" envDefault:"2"`

	// NORESPONSE fallback reactions
	EmojiFallback []string `env:"EMOJI_FALLBACK" envSeparator:","`
}

func NewRoutingConfig(ctx context.Context) *RoutingConfig {
	c := &RoutingConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Routing config")
	}
	return c
}
