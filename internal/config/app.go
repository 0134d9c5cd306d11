package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/wizzybot/pkg/log"
)

type AppConfig struct {
	// Conversation window: how much recent history the model sees.
	HistoryWindow int           `env:"HISTORY_WINDOW" envDefault:"20"`
	HistoryMaxAge time.Duration `env:"HISTORY_MAX_AGE" envDefault:"24h"`

	// Uploads beyond this size are refused before download.
	MaxDocumentBytes int64 `env:"MAX_DOCUMENT_BYTES" envDefault:"20971520"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(GetRuntimePath(), "wizzy.db")
}
