package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"resort/api"
	"resort/config"
	"resort/infrastructure/outbox"
	"resort/pkg/logger"

	"go.uber.org/zap"
)

// App is the booking HTTP service with its backends
type App struct {
	config  *config.Config
	router  *api.Router
	server  *http.Server
	worker  *outbox.Worker // in-process relay, memory store only
	closers []closer
}

// Run serves until ctx is cancelled, then drains in-flight requests within
// server.shutdown_timeout and closes every backend.
func (a *App) Run(ctx context.Context) error {
	workerCtx, stopWorker := context.WithCancel(context.Background())
	workerDone := make(chan struct{})
	if a.worker != nil {
		go func() {
			defer close(workerDone)
			if err := a.worker.Run(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Outbox worker exited", zap.Error(err))
			}
		}()
	} else {
		close(workerDone)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting",
			zap.String("addr", a.server.Addr),
			zap.String("health", "/api/v1/health"))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutting down server")
	case err, ok := <-serverErr:
		if ok {
			runErr = fmt.Errorf("server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		if runErr == nil {
			runErr = err
		}
	}

	stopWorker()
	<-workerDone

	closeAll(shutdownCtx, a.closers)
	logger.Info("Server stopped")
	return runErr
}

// Handler returns the HTTP handler (used for testing)
func (a *App) Handler() http.Handler {
	return a.router.GetEngine()
}
