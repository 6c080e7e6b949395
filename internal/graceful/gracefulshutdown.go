package graceful

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

type Operation func(ctx context.Context) error

// GracefulShutdown waits for a termination signal and runs the clean-up
// operations concurrently, each bounded by the shared timeout.
func GracefulShutdown(ctx context.Context, timeout time.Duration, ops map[string]Operation, logger *slog.Logger) <-chan struct{} {
	op := "GracefulShutdown()"
	log := logger.With(
		slog.String("op", op))

	wait := make(chan struct{})
	go func() {
		s := make(chan os.Signal, 1)
		signal.Notify(s, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		<-s

		log.Info("shutting down")

		ctxTimeout, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		var wg sync.WaitGroup

		for key, operation := range ops {
			wg.Add(1)
			go func(name string, run Operation) {
				defer wg.Done()

				log.Info("cleaning up", slog.String("process", name))
				if err := run(ctxTimeout); err != nil {
					log.Error("error clean up", slog.String("process", name), slog.String("error", err.Error()))
					return
				}

				log.Info("shutdown gracefully", slog.String("process", name))
			}(key, operation)
		}

		wg.Wait()
		log.Info("graceful shutdown completed")

		close(wait)
	}()

	return wait
}
