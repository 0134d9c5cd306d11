package srv

import (
	"context"
	"time"

	"github.com/sandevgo/wizzybot/pkg/log"
)

const shutdownGrace = 15 * time.Second

type Service interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

func StartServices(ctx context.Context, services []Service) {
	logger := log.FromCtx(ctx)
	for _, service := range services {
		go func(service Service) {
			if err := service.Start(ctx); err != nil {
				logger.Fatal().Err(err).Msgf("%T failed to start", service)
			}
		}(service)
	}
}

// ShutdownServices blocks until ctx is cancelled, then stops services in
// reverse registration order. Shutdown gets a fresh deadline context: the
// signal context is already dead by then and would abort graceful stops.
func ShutdownServices(ctx context.Context, services []Service) {
	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(log.FromCtx(ctx).WithContext(context.Background()), shutdownGrace)
	defer cancel()

	for i := len(services) - 1; i >= 0; i-- {
		if err := services[i].Shutdown(stopCtx); err != nil {
			log.FromCtx(ctx).Error().Err(err).Msgf("%T failed to shutdown", services[i])
		}
	}
}
