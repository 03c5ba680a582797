package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/JonMunkholm/painel/internal/core"
)

type httpServer interface {
	Start() error
	Shutdown(ctx context.Context) error
}

type loginDrainer interface {
	LoginStatus() core.LoginLimiterStatus
	WaitForLogins(ctx context.Context) error
}

// serve runs srv until a signal arrives on stop. Background jobs stop first,
// then the listener with its open connections, then in-flight logins drain.
// It returns only after all of that has finished or timeout has passed, so
// resources the caller closes afterwards are no longer in use.
func serve(srv httpServer, logins loginDrainer, stop <-chan os.Signal, stopJobs func(), timeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		stopJobs()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-stop:
	}

	slog.Info("shutting down...")
	stopJobs()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Shutdown stops accepting requests and waits for active ones, so no
	// login can start after this returns.
	shutdownErr := srv.Shutdown(ctx)
	if shutdownErr != nil {
		slog.Error("shutdown error", "error", shutdownErr)
	}

	if status := logins.LoginStatus(); status.Active > 0 {
		slog.Info("waiting for logins to complete", "active", status.Active)
	}
	if err := logins.WaitForLogins(ctx); err != nil {
		slog.Warn("logins did not complete in time", "error", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	slog.Info("server stopped")
	return shutdownErr
}
