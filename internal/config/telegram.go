package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/wizzybot/pkg/log"
)

type TelegramConfig struct {
	Token string `env:"TELEGRAM_BOT_TOKEN,required,notEmpty"`

	// PublicURL is the externally reachable base URL Telegram delivers
	// updates to. Empty means the webhook is managed out of band.
	PublicURL   string `env:"WEBHOOK_URL"`
	WebhookPath string `env:"WEBHOOK_PATH" envDefault:"/webhook"`
	Port        int    `env:"PORT" envDefault:"8000"`
}

func NewTelegramConfig(ctx context.Context) *TelegramConfig {
	c := &TelegramConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Telegram config")
	}
	return c
}

func (c TelegramConfig) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// WebhookEndpoint is the full public URL Telegram should post updates to.
func (c TelegramConfig) WebhookEndpoint() string {
	if c.PublicURL == "" {
		return ""
	}
	return strings.TrimSuffix(c.PublicURL, "/") + c.WebhookPath
}
