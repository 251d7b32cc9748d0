package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/planora/server/internal/api"
	"github.com/planora/server/internal/config"
	"github.com/planora/server/internal/jobs"
	"github.com/planora/server/internal/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the Planora HTTP server with the configured storage and notification backends.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return runServer(cfg)
	},
}

func runServer(cfg config.Config) error {
	logger := config.NewLogger(cfg.Logging)

	logger.Info().
		Str("version", Version).
		Str("environment", cfg.Environment).
		Str("storage_backend", cfg.Storage.Backend).
		Str("notify_backend", cfg.Notify.Backend).
		Msg("starting server")

	metrics.Init(Version, GitCommit, BuildDate)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}

	handler := api.NewRouter(cfg, api.Deps{
		Users:  app.Users,
		Events: app.Events,
		Tokens: app.Tokens,
	}, logger)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	if cfg.Reminder.Enabled {
		schedule := jobs.NewSchedule(app.Reminder, cfg.Reminder.HourUTC, logger)
		go schedule.Run(ctx)
	} else {
		logger.Info().Msg("reminder schedule disabled")
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info().Msg("server stopped")
	return nil
}
