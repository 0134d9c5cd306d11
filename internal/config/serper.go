package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/wizzybot/pkg/log"
)

// SerperConfig drives the /search and /news commands. The key is optional:
// without one, both commands answer that search is unavailable.
type SerperConfig struct {
	APIKey  string `env:"SERPER_API_KEY"`
	BaseURL string `env:"SERPER_BASE_URL" envDefault:"https://google.serper.dev"`
	Results int    `env:"SERPER_RESULTS" envDefault:"5"`
	Country string `env:"SERPER_COUNTRY" envDefault:"us"`
}

func NewSerperConfig(ctx context.Context) *SerperConfig {
	c := &SerperConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Serper config")
	}
	return c
}

func (c SerperConfig) Enabled() bool {
	return c.APIKey != ""
}
