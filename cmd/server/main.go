package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/transparencyportal/ai-service/config"
	"github.com/transparencyportal/ai-service/internal/app"
	httpDelivery "github.com/transparencyportal/ai-service/internal/delivery/http"
	"github.com/transparencyportal/ai-service/internal/infrastructure/ratelimit"
	"github.com/transparencyportal/ai-service/internal/logging"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, closeLog, err := logging.New(logging.FromConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}
	defer closeLog()

	logger.Info().
		Str("version", app.Version).
		Str("environment", cfg.Server.Environment).
		Str("address", cfg.Server.Address()).
		Msg("starting transparency AI service")

	if cfg.Generator.APIKey == "" {
		logger.Warn().Str("provider", cfg.Generator.Provider).Msg("no inference API key configured, hosted models may reject requests")
	}

	// Initialize usecase layer
	services, err := app.NewServices(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	var limiter httpDelivery.RateLimiter
	if cfg.RateLimit.PerIP > 0 {
		store := ratelimit.NewStore(ratelimit.StoreConfig{RequestsPerMinute: cfg.RateLimit.PerIP})
		defer store.Close()
		limiter = store
		logger.Info().Int("per_minute", cfg.RateLimit.PerIP).Msg("per-client rate limiting enabled")
	}

	handler := httpDelivery.NewHandler(services.Questions, services.Scorer, app.Version, logger)
	router := httpDelivery.SetupRouter(cfg, handler, limiter, logger)

	srv := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("address", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}
