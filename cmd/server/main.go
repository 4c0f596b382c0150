// Package main implements the feedsieve server: a webhook ingress that
// queues feed notifications, and a background scheduler that classifies
// each item with an LLM and publishes the keepers to a read-later
// service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phrazzld/feedsieve/internal/config"
	"github.com/phrazzld/feedsieve/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

// run owns the full server lifecycle so main stays a thin error funnel.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Int("llm_endpoints", len(cfg.EnabledEndpoints())),
		slog.Int("prompt_groups", len(cfg.Prompts)))

	db, err := setupDatabase(cfg, appLogger)
	if err != nil {
		return err
	}

	if err := runMigrations(db, appLogger); err != nil {
		_ = db.Close()
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := newApplication(ctx, cfg, appLogger, db)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer app.cleanup()

	// The scheduler shares the server's lifetime; cancelling ctx stops
	// it between cycles.
	schedulerDone := make(chan struct{})
	go func() {
		defer close(schedulerDone)
		app.scheduler.Run(ctx)
	}()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           app.setupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		appLogger.Info("server starting", slog.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-shutdownCh:
		appLogger.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		cancel()
		<-schedulerDone
		return fmt.Errorf("server failed: %w", err)
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	// Wait for an in-flight processing cycle to finish.
	<-schedulerDone

	appLogger.Info("server shutdown completed")
	return nil
}
