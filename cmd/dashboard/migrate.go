package main

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/invoice-dashboard/internal/config"
	"github.com/deppfellow/invoice-dashboard/internal/database"
	"github.com/deppfellow/invoice-dashboard/internal/logger"
	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			log := logger.NewLogger(cfg.Observability)

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			return database.Migrate(ctx, &log, cfg)
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "time allowed for the whole migration run")
	return cmd
}
