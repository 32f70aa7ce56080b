// Package main implements the entry point for the Court Service API server,
// a REST facade over the facility and court tables in Postgres/PostGIS.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/court-service/internal/api"
	"github.com/phrazzld/court-service/internal/config"
	"github.com/phrazzld/court-service/internal/platform/logger"
	"github.com/phrazzld/court-service/internal/platform/tracing"
)

// version is reported by the root endpoint. Overridden at build time with
// -ldflags "-X main.version=...".
var version = "1.0.0"

func main() {
	migrateCmd := flag.String("migrate", "", "Run a migration command (up|down|reset|status|version) and exit")
	flag.Parse()

	if err := run(*migrateCmd); err != nil {
		log.Fatalf("court-service: %v", err)
	}
}

// run loads configuration, wires the application and blocks until the
// server stops. When migrateCmd is set, it runs that migration command
// instead of serving.
func run(migrateCmd string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := setupAppDatabase(ctx, cfg, appLogger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			appLogger.Error("failed to close database", slog.String("error", closeErr.Error()))
		}
	}()

	if migrateCmd != "" {
		return runMigrations(ctx, db, migrateCmd, appLogger)
	}
	if cfg.Database.MigrateOnStart {
		if err := runMigrations(ctx, db, "up", appLogger); err != nil {
			return err
		}
	}

	shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing, api.ServiceName, version)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}

	app, err := newApplication(cfg, appLogger, db)
	if err != nil {
		return err
	}
	app.onCleanup(func(ctx context.Context) error { return shutdownTracing(ctx) })

	return app.startHTTPServer(ctx, app.setupRouter())
}

// loadAppConfig loads and validates the service configuration.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
