package janitor

import (
	"context"
	"fmt"
	"time"

	"github.com/adhocore/gronx"

	"github.com/sandevgo/wizzybot/pkg/log"
)

// retryDelay is how long the scheduler sleeps when it cannot compute the
// next tick, before trying again.
const retryDelay = 30 * time.Second

// Scheduler runs the janitor on a cron expression. It plugs into the
// service lifecycle next to the webhook server.
type Scheduler struct {
	janitor *Janitor
	cron    string
}

func NewScheduler(janitor *Janitor, cron string) (*Scheduler, error) {
	if !gronx.IsValid(cron) {
		return nil, fmt.Errorf("invalid cleanup cron expression: %s", cron)
	}
	return &Scheduler{janitor: janitor, cron: cron}, nil
}

// Start blocks until ctx is cancelled, waking at each cron tick to run
// the purges. Run failures are logged and the schedule keeps going.
func (s *Scheduler) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Str("cron", s.cron).Msg("Cleanup scheduler started")

	for {
		next, err := gronx.NextTickAfter(s.cron, time.Now().UTC(), false)
		if err != nil {
			logger.Error().Err(err).Str("cron", s.cron).Msg("Failed to compute next cleanup tick")
			select {
			case <-time.After(retryDelay):
				continue
			case <-ctx.Done():
				return nil
			}
		}

		select {
		case <-time.After(time.Until(next)):
			if _, err := s.janitor.Run(ctx); err != nil {
				logger.Error().Err(err).Msg("Scheduled cleanup failed")
			}
		case <-ctx.Done():
			logger.Info().Msg("Cleanup scheduler stopping")
			return nil
		}
	}
}

func (s *Scheduler) Shutdown(ctx context.Context) error {
	return nil
}
