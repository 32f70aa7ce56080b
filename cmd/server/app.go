package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/court-service/internal/config"
	"github.com/phrazzld/court-service/internal/platform/postgres"
	"github.com/phrazzld/court-service/internal/service"
	"github.com/phrazzld/court-service/internal/service/auth"
	"github.com/phrazzld/court-service/internal/store"
)

const cleanupTimeout = 10 * time.Second

// application holds the wired dependencies of the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	facilityStore store.FacilityStore
	courtStore    store.CourtStore

	nearbySearcher  *service.NearbySearcher
	facilityService service.FacilityService
	courtService    service.CourtService

	// jwtService is nil when authentication is disabled.
	jwtService auth.JWTService

	cleanups []func(context.Context) error
}

// newApplication wires stores and services on top of db.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	storeOpts := []postgres.StoreOption{
		postgres.WithQueryTimeout(cfg.Database.QueryTimeout()),
		postgres.WithNearbyFunction(cfg.Search.NearbyFunction),
	}
	facilityStore := postgres.NewPostgresFacilityStore(db, logger, storeOpts...)
	courtStore := postgres.NewPostgresCourtStore(db, logger, storeOpts...)

	return newApplicationWithStores(cfg, logger, db, facilityStore, courtStore)
}

// newApplicationWithStores builds the service layer from the given stores.
func newApplicationWithStores(
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	facilityStore store.FacilityStore,
	courtStore store.CourtStore,
) (*application, error) {
	searcher, err := service.NewNearbySearcher(facilityStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create nearby searcher: %w", err)
	}

	facilityService, err := service.NewFacilityService(db, facilityStore, courtStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create facility service: %w", err)
	}

	courtService, err := service.NewCourtService(facilityStore, courtStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create court service: %w", err)
	}

	app := &application{
		config:          cfg,
		logger:          logger,
		db:              db,
		facilityStore:   facilityStore,
		courtStore:      courtStore,
		nearbySearcher:  searcher,
		facilityService: facilityService,
		courtService:    courtService,
	}

	if cfg.Auth.Enabled() {
		jwtService, err := auth.NewJWTService(cfg.Auth)
		if err != nil {
			return nil, fmt.Errorf("failed to create JWT service: %w", err)
		}
		app.jwtService = jwtService
		logger.Info("authentication enabled for write endpoints")
	} else {
		logger.Warn("authentication disabled: no jwt secret configured")
	}

	return app, nil
}

// onCleanup registers fn to run during shutdown. Cleanups run in reverse
// registration order.
func (app *application) onCleanup(fn func(context.Context) error) {
	app.cleanups = append(app.cleanups, fn)
}

// cleanup runs the registered cleanup functions, logging failures.
func (app *application) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()

	for i := len(app.cleanups) - 1; i >= 0; i-- {
		if err := app.cleanups[i](ctx); err != nil {
			app.logger.Error("cleanup failed", slog.String("error", err.Error()))
		}
	}
	app.cleanups = nil
}
