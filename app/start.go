package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"
)

const shutdownTimeout = 10 * time.Second

// StartMetricsServer serves the operational router on the configured metrics
// address until ctx is cancelled. It returns immediately when no address is set.
func (app *App) StartMetricsServer(ctx context.Context) error {
	addr := app.Cfg.Observability.MetricsAddress
	if addr == "" {
		return nil
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           app.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.Logger.Info("Starting metrics server", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error("Error during metrics server shutdown", "error", err)
		return err
	}
	app.Logger.Info("Metrics server stopped")
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
