package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/invoice-dashboard/internal/config"
	"github.com/deppfellow/invoice-dashboard/internal/handler"
	"github.com/deppfellow/invoice-dashboard/internal/lib/email"
	"github.com/deppfellow/invoice-dashboard/internal/logger"
	"github.com/deppfellow/invoice-dashboard/internal/repository"
	"github.com/deppfellow/invoice-dashboard/internal/router"
	"github.com/deppfellow/invoice-dashboard/internal/server"
	"github.com/deppfellow/invoice-dashboard/internal/service"
	"github.com/spf13/cobra"
)

const defaultShutdownTimeout = 30 * time.Second

func newServeCommand() *cobra.Command {
	var shutdownTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the read API and run the report workers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), shutdownTimeout)
		},
	}
	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", defaultShutdownTimeout, "time allowed for in-flight requests on shutdown")
	return cmd
}

func serve(ctx context.Context, shutdownTimeout time.Duration) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	defer loggerService.Shutdown()

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	s, err := server.New(cfg, &log, loggerService)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	repos := repository.NewRepositories(s)
	services, err := service.NewServices(s, repos)
	if err != nil {
		return fmt.Errorf("could not create services: %w", err)
	}

	s.Job.InitHandlers(services.Dashboard, email.NewClient(cfg, &log), s.Metrics)
	if err := s.Job.Start(); err != nil {
		// Reports are optional; the read API keeps serving without them.
		log.Error().Err(err).Msg("failed to start background job server")
	}

	handlers := handler.NewHandlers(s, services)
	s.SetupHTTPServer(router.NewRouter(s, handlers))

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.Start()
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error().Err(err).Msg("server stopped unexpectedly")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server exited properly")
	return nil
}
