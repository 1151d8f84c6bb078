// Package main provides the entry point for the fanpulse engine CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:     "fanpulse",
		Short:   "Deterministic mention resolution and fan-signal aggregation engine",
		Version: version,
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newWorkerCmd(),
		newBaselineCmd(),
		newCatalogCmd(),
		newImportCmd(),
		newReportCmd(),
		newMigrateCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}

func newLogger(appEnv string) zerolog.Logger {
	if appEnv == "local" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
