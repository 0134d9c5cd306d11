package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/wizzybot/pkg/log"
)

// GoogleConfig drives the Gemini client used for chat, vision, audio
// transcription and document summaries.
type GoogleConfig struct {
	APIKey  string `env:"GOOGLE_API_KEY,required,notEmpty"`
	Model   string `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash"`
	BaseURL string `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
}

func NewGoogleConfig(ctx context.Context) *GoogleConfig {
	c := &GoogleConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Google config")
	}
	return c
}
