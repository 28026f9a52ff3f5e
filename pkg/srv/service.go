// Package srv starts and stops the long-running parts of the process.
package srv

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/gradebot/pkg/log"
)

// ShutdownTimeout bounds the time each service gets to stop.
const ShutdownTimeout = 10 * time.Second

type Service interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// StartServices starts every service in its own goroutine. A service that
// fails to start calls fail, which usually cancels the root context.
func StartServices(ctx context.Context, services []Service, fail func(error)) {
	logger := log.FromCtx(ctx)
	for _, service := range services {
		go func(service Service) {
			if err := service.Start(ctx); err != nil {
				logger.Error().Err(err).Str("service", name(service)).Msg("service failed to start")
				if fail != nil {
					fail(fmt.Errorf("start %s: %w", name(service), err))
				}
			}
		}(service)
	}
}

// ShutdownServices waits for ctx to end and stops services in reverse
// order of registration.
func ShutdownServices(ctx context.Context, services []Service) {
	<-ctx.Done()

	logger := log.FromCtx(ctx)
	for i := len(services) - 1; i >= 0; i-- {
		service := services[i]
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
		if err := service.Shutdown(sctx); err != nil {
			logger.Error().Err(err).Str("service", name(service)).Msg("service failed to shutdown")
		}
		cancel()
	}
}

func name(s Service) string {
	if n, ok := s.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", s)
}
