package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/pepebot/pkg/log"
)

type TelegramConfig struct {
	Token string `env:"TELEGRAM_TOKEN,required,notEmpty"`
	// Deliver the NORESPONSE emoji instead of staying fully silent
	SendFallbackEmoji bool `env:"TELEGRAM_SEND_FALLBACK_EMOJI" envDefault:"false"`
}

func NewTelegramConfig(ctx context.Context) *TelegramConfig {
	c := &TelegramConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Telegram config")
	}
	return c
}
