package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/wizzybot/pkg/log"
)

// CleanupConfig controls retention maintenance. Cron is a standard five
// field expression; empty disables the in-process scheduler, leaving purges
// to the cleanup CLI command.
type CleanupConfig struct {
	Cron                  string `env:"CLEANUP_CRON"`
	DocumentRetentionDays int    `env:"DOCUMENT_RETENTION_DAYS" envDefault:"7"`
}

func NewCleanupConfig(ctx context.Context) *CleanupConfig {
	c := &CleanupConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Cleanup config")
	}
	return c
}
