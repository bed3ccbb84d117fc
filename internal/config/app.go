package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v9"
	"github.com/sandevgo/pepebot/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"PEPEBOT_RUNTIME_PATH" envDefault:".pepebot"`
	// Allow selecting the provider
	LLMProvider string `env:"LLM_PROVIDER" envDefault:"openrouter"`

	// Transport Flags
	EnableTelegram bool `env:"ENABLE_TELEGRAM" envDefault:"true"`

	// Persona
	BotName string `env:"BOT_NAME" envDefault:"PEPE"`

	// Per-room conversation buffer ceiling
	HistoryCeiling int `env:"HISTORY_CEILING" envDefault:"100"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "pepebot.db")
}

func (c AppConfig) GetCardCatalogPath() string {
	return filepath.Join(c.RuntimePath, "cards.json")
}
