package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/wizzybot/pkg/log"
)

// GroqConfig drives text-to-speech for voice replies. The key is optional:
// without one, voice messages get a plain text answer.
type GroqConfig struct {
	APIKey  string `env:"GROQ_API_KEY"`
	Model   string `env:"GROQ_TTS_MODEL" envDefault:"playai-tts"`
	Voice   string `env:"GROQ_TTS_VOICE" envDefault:"Celeste-PlayAI"`
	BaseURL string `env:"GROQ_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
}

func NewGroqConfig(ctx context.Context) *GroqConfig {
	c := &GroqConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Groq config")
	}
	return c
}

func (c GroqConfig) Enabled() bool {
	return c.APIKey != ""
}
