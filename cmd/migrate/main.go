// Command migrate copies the legacy SQLite store into the MySQL store.
//
//	migrate [--force] [--source DSN] [--dest DSN] [--verbose]
//
// Without --force the run aborts when the destination already holds data.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"gymdesk/internal/config"
	"gymdesk/internal/logger"
	"gymdesk/internal/migration"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("migrate", pflag.ContinueOnError)
	force := flags.BoolP("force", "f", false, "replace existing destination data")
	source := flags.String("source", "", "source DSN (overrides MIGRATE_SOURCE_DSN)")
	dest := flags.String("dest", "", "destination DSN (overrides MIGRATE_DEST_DSN)")
	verbose := flags.BoolP("verbose", "v", false, "log every phase")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger.InitText(os.Stderr, level)

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf("Failed to load config: %v", err)
		return 1
	}
	mc := cfg.MigrationConfig
	if *source != "" {
		mc.SourceDSN = *source
	}
	if *dest != "" {
		mc.DestDSN = *dest
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	procedure := migration.New(
		migration.Endpoint{Driver: mc.SourceDriver, DSN: mc.SourceDSN},
		migration.Endpoint{Driver: mc.DestDriver, DSN: mc.DestDSN},
		logger.Logger(),
		migration.WithForce(*force),
	)
	report, err := procedure.Run(ctx)
	if werr := report.WriteSummary(os.Stdout); werr != nil {
		fmt.Fprintln(os.Stderr, werr)
	}
	if err != nil {
		return 1
	}
	return 0
}
