package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const shutdownWaitTimeout = 10 * time.Second

// StartHTTPServer starts serving handler on addr in the background. A
// listen failure is sent on errCh.
func StartHTTPServer(logger *slog.Logger, handler http.Handler, addr string, errCh chan<- error) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":3000"
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			select {
			case errCh <- err:
			default:
			}
		}
	}()

	return server
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	if server == nil {
		return nil
	}
	logger.Info("shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownWaitTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("HTTP server stopped")
	return nil
}

// RunConfig contains what Run needs to serve until shutdown.
type RunConfig struct {
	Addr    string
	Handler http.Handler
	Logger  *slog.Logger
}

// Run serves HTTP and blocks until SIGINT/SIGTERM, ctx cancellation, or a
// server failure, then shuts down gracefully.
func Run(ctx context.Context, cfg RunConfig) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	server := StartHTTPServer(logger, cfg.Handler, cfg.Addr, errCh)

	select {
	case <-ctx.Done():
		logger.Info("shutting down...")
		return ShutdownHTTPServer(context.WithoutCancel(ctx), server, logger)
	case err := <-errCh:
		logger.Error("service error", "error", err)
		if stopErr := ShutdownHTTPServer(context.WithoutCancel(ctx), server, logger); stopErr != nil {
			logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}
