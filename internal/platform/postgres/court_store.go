package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/court-service/internal/domain"
	"github.com/phrazzld/court-service/internal/platform/logger"
	"github.com/phrazzld/court-service/internal/redact"
	"github.com/phrazzld/court-service/internal/store"
)

// PostgresCourtStore implements the store.CourtStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCourtStore struct {
	db     store.DBTX
	logger *slog.Logger
	opts   storeOptions
}

// NewPostgresCourtStore creates a new PostgreSQL implementation of the CourtStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresCourtStore(db store.DBTX, logger *slog.Logger, opts ...StoreOption) *PostgresCourtStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCourtStore{
		db:     db,
		logger: logger.With(slog.String("component", "court_store")),
		opts:   newStoreOptions(opts),
	}
}

// Ensure PostgresCourtStore implements store.CourtStore interface
var _ store.CourtStore = (*PostgresCourtStore)(nil)

// WithTx implements store.CourtStore.WithTx
func (s *PostgresCourtStore) WithTx(tx *sql.Tx) store.CourtStore {
	return &PostgresCourtStore{
		db:     tx,
		logger: s.logger,
		opts:   s.opts,
	}
}

// Create implements store.CourtStore.Create
// Returns store.ErrFacilityNotFound if the facility does not exist (foreign key violation).
func (s *PostgresCourtStore) Create(ctx context.Context, court *domain.Court) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := court.Validate(); err != nil {
		log.Warn("court validation failed during create",
			slog.String("error", err.Error()),
			slog.String("court_id", court.ID.String()))
		return err
	}

	query := `
		INSERT INTO courts (
			id, facility_id, name, sport, indoor,
			slot_duration_minutes, min_booking_minutes, max_booking_minutes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	qctx, cancel := s.opts.queryContext(ctx)
	defer cancel()

	_, err := s.db.ExecContext(
		qctx,
		query,
		court.ID,
		court.FacilityID,
		court.Name,
		string(court.Sport),
		court.Indoor,
		court.SlotDurationMinutes,
		court.MinBookingMinutes,
		court.MaxBookingMinutes,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during court creation",
				slog.String("court_id", court.ID.String()),
				slog.String("facility_id", court.FacilityID.String()))
			return store.ErrFacilityNotFound
		}
		log.Error("failed to create court",
			slog.String("error", redact.Error(err)),
			slog.String("court_id", court.ID.String()),
			slog.String("facility_id", court.FacilityID.String()))
		return store.NewStoreError("court", "create", "insert failed", MapError(err))
	}

	log.Info("court created successfully",
		slog.String("court_id", court.ID.String()),
		slog.String("facility_id", court.FacilityID.String()),
		slog.String("sport", string(court.Sport)))
	return nil
}

// ListByFacility implements store.CourtStore.ListByFacility
func (s *PostgresCourtStore) ListByFacility(ctx context.Context, facilityID uuid.UUID) ([]domain.Court, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, facility_id, name, sport, indoor,
			slot_duration_minutes, min_booking_minutes, max_booking_minutes
		FROM courts
		WHERE facility_id = $1
		ORDER BY name, id
	`

	qctx, cancel := s.opts.queryContext(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(qctx, query, facilityID)
	if err != nil {
		log.Error("failed to query courts",
			slog.String("error", redact.Error(err)),
			slog.String("facility_id", facilityID.String()))
		return nil, store.NewStoreError("court", "list_by_facility", "query failed", MapError(err))
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	courts := []domain.Court{}
	for rows.Next() {
		var (
			court domain.Court
			sport string
		)
		err := rows.Scan(
			&court.ID,
			&court.FacilityID,
			&court.Name,
			&sport,
			&court.Indoor,
			&court.SlotDurationMinutes,
			&court.MinBookingMinutes,
			&court.MaxBookingMinutes,
		)
		if err != nil {
			log.Error("failed to scan court row", slog.String("error", err.Error()))
			return nil, store.NewStoreError("court", "list_by_facility", "scan failed", err)
		}
		court.Sport = domain.Sport(sport)
		courts = append(courts, court)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", redact.Error(err)))
		return nil, store.NewStoreError("court", "list_by_facility", "row iteration failed", MapError(err))
	}

	log.Debug("listed courts",
		slog.String("facility_id", facilityID.String()),
		slog.Int("count", len(courts)))
	return courts, nil
}
