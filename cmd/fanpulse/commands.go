package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nkotelnikov/fanpulse/internal/app"
	"github.com/nkotelnikov/fanpulse/internal/platform/config"
	db "github.com/nkotelnikov/fanpulse/internal/storage"
)

// bootstrap loads config, connects to the database, runs migrations and
// wires the application. The returned cleanup closes the pool.
func bootstrap(ctx context.Context) (*app.App, *zerolog.Logger, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}

	weights, err := config.LoadWeights(cfg.WeightsPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading weights: %w", err)
	}

	logger := newLogger(cfg.AppEnv)

	poolOpts := db.PoolOptions{
		MaxConns:          cfg.DBMaxConnections,
		MinConns:          cfg.DBMinConnections,
		MaxConnIdleTime:   cfg.DBMaxConnIdleTime,
		MaxConnLifetime:   cfg.DBMaxConnLifetime,
		HealthCheckPeriod: cfg.DBHealthCheckPeriod,
	}

	database, err := db.NewWithOptions(ctx, cfg.PostgresDSN, poolOpts, &logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := database.Migrate(ctx); err != nil {
		database.Close()

		return nil, nil, nil, fmt.Errorf("running migrations: %w", err)
	}

	return app.New(cfg, weights, database, &logger), &logger, database.Close, nil
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Execute one daily pipeline run and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, _, cleanup, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			return application.RunOnce(cmd.Context(), time.Now())
		},
	}
}

func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run the scheduler loop with health and metrics endpoints",
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, logger, cleanup, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			go func() {
				if err := application.StartHealthServer(cmd.Context()); err != nil {
					logger.Error().Err(err).Msg("health check server error")
				}
			}()

			return application.RunWorker(cmd.Context())
		},
	}
}

func newBaselineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "baseline",
		Short: "Recompute weekly baseline fame for all active entities",
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, _, cleanup, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			return application.RunBaseline(cmd.Context())
		},
	}
}

func newCatalogCmd() *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Entity catalog operations",
	}

	catalogCmd.AddCommand(&cobra.Command{
		Use:   "sync",
		Short: "Upsert the pinned seed entities into storage",
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, logger, cleanup, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			n, err := application.SyncCatalog(cmd.Context())
			if err != nil {
				return err
			}

			logger.Info().Int("entities", n).Msg("catalog synced")

			return nil
		},
	})

	return catalogCmd
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a JSONL item export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, logger, cleanup, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			n, err := application.ImportItems(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			logger.Info().Int("items", n).Msg("import complete")

			return nil
		},
	}
}

func newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report <run-id>",
		Short: "Print a summary of a persisted run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, _, cleanup, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			return application.Report(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// bootstrap already migrates; this mode exists for deploy hooks.
			_, _, cleanup, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			return nil
		},
	}
}
