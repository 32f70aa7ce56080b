package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/phrazzld/court-service/internal/domain"
	"github.com/phrazzld/court-service/internal/geo"
	"github.com/phrazzld/court-service/internal/platform/logger"
	"github.com/phrazzld/court-service/internal/redact"
	"github.com/phrazzld/court-service/internal/store"
)

// facilityColumns selects a facility with its location rendered as GeoJSON.
const facilityColumns = `id, name, ST_AsGeoJSON(location), address_line, city, country, image, user_id, created_at`

// nearbyQuery filters by ST_DWithin on the geography column, so the radius
// ($2) is in meters. Distance is reported in kilometers.
const nearbyQuery = `
	SELECT id, name,
		ST_Y(location::geometry) AS latitude,
		ST_X(location::geometry) AS longitude,
		address_line, city, country, image, user_id, created_at,
		ST_Distance(location, ST_GeogFromText($1)) / 1000.0 AS distance_km
	FROM facilities
	WHERE ST_DWithin(location, ST_GeogFromText($1), $2)
	ORDER BY distance_km
`

// PostgresFacilityStore implements the store.FacilityStore interface
// using a PostgreSQL database with PostGIS as the storage backend.
type PostgresFacilityStore struct {
	db     store.DBTX
	logger *slog.Logger
	opts   storeOptions
}

// NewPostgresFacilityStore creates a new PostgreSQL implementation of the FacilityStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresFacilityStore(db store.DBTX, logger *slog.Logger, opts ...StoreOption) *PostgresFacilityStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresFacilityStore{
		db:     db,
		logger: logger.With(slog.String("component", "facility_store")),
		opts:   newStoreOptions(opts),
	}
}

// Ensure PostgresFacilityStore implements store.FacilityStore interface
var _ store.FacilityStore = (*PostgresFacilityStore)(nil)

// WithTx implements store.FacilityStore.WithTx
func (s *PostgresFacilityStore) WithTx(tx *sql.Tx) store.FacilityStore {
	return &PostgresFacilityStore{
		db:     tx,
		logger: s.logger,
		opts:   s.opts,
	}
}

// QueryNearby implements store.FacilityStore.QueryNearby
func (s *PostgresFacilityStore) QueryNearby(
	ctx context.Context,
	center domain.Point,
	radiusMeters float64,
) ([]store.FacilityRecord, error) {
	return s.queryRecords(ctx, "query_nearby", nearbyQuery, func(sc rowScanner) (store.FacilityRecord, error) {
		return scanPointRow(sc, true)
	}, geo.EncodePoint(center), radiusMeters)
}

// CallNearbyFunction implements store.FacilityStore.CallNearbyFunction
// The function is expected to return id, name, latitude, longitude,
// address_line, city, country, image and distance_km.
func (s *PostgresFacilityStore) CallNearbyFunction(
	ctx context.Context,
	center domain.Point,
	radiusMeters float64,
) ([]store.FacilityRecord, error) {
	query := fmt.Sprintf(
		`SELECT id, name, latitude, longitude, address_line, city, country, image, distance_km FROM %s($1, $2, $3)`,
		pgx.Identifier{s.opts.nearbyFunction}.Sanitize(),
	)
	return s.queryRecords(ctx, "call_nearby_function", query, func(sc rowScanner) (store.FacilityRecord, error) {
		return scanPointRow(sc, false)
	}, center.Latitude, center.Longitude, radiusMeters)
}

// ListAll implements store.FacilityStore.ListAll
func (s *PostgresFacilityStore) ListAll(ctx context.Context) ([]store.FacilityRecord, error) {
	return s.queryRecords(ctx, "list_all", `SELECT `+facilityColumns+` FROM facilities`, scanGeoJSONRow)
}

// ListByUser implements store.FacilityStore.ListByUser
func (s *PostgresFacilityStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]store.FacilityRecord, error) {
	query := `SELECT ` + facilityColumns + ` FROM facilities WHERE user_id = $1 ORDER BY created_at DESC, id`
	return s.queryRecords(ctx, "list_by_user", query, scanGeoJSONRow, userID)
}

// GetByID implements store.FacilityStore.GetByID
// Returns store.ErrFacilityNotFound if the facility does not exist.
func (s *PostgresFacilityStore) GetByID(ctx context.Context, id uuid.UUID) (*store.FacilityRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("retrieving facility by ID", slog.String("facility_id", id.String()))

	qctx, cancel := s.opts.queryContext(ctx)
	defer cancel()

	row := s.db.QueryRowContext(qctx, `SELECT `+facilityColumns+` FROM facilities WHERE id = $1`, id)
	rec, err := scanGeoJSONRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("facility not found", slog.String("facility_id", id.String()))
			return nil, store.ErrFacilityNotFound
		}
		log.Error("failed to get facility by ID",
			slog.String("error", redact.Error(err)),
			slog.String("facility_id", id.String()))
		return nil, store.NewStoreError("facility", "get_by_id", "query failed", MapError(err))
	}
	return &rec, nil
}

// Create implements store.FacilityStore.Create
// The facility must carry a location. Returns validation errors from the
// domain Facility if data is invalid.
func (s *PostgresFacilityStore) Create(ctx context.Context, facility *domain.Facility) (*store.FacilityRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := facility.Validate(); err != nil {
		log.Warn("facility validation failed during create",
			slog.String("error", err.Error()),
			slog.String("facility_id", facility.ID.String()))
		return nil, err
	}
	if !facility.HasResolvedLocation() {
		return nil, domain.NewValidationError("location", "is required", domain.ErrInvalidCoordinates)
	}

	query := `
		INSERT INTO facilities (id, name, location, address_line, city, country, image, user_id)
		VALUES ($1, $2, ST_GeogFromText($3), $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	qctx, cancel := s.opts.queryContext(ctx)
	defer cancel()

	var createdAt time.Time
	err := s.db.QueryRowContext(
		qctx,
		query,
		facility.ID,
		facility.Name,
		geo.EncodePoint(*facility.Location),
		facility.AddressLine,
		facility.City,
		facility.Country,
		facility.Image,
		facility.UserID,
	).Scan(&createdAt)
	if err != nil {
		log.Error("failed to create facility",
			slog.String("error", redact.Error(err)),
			slog.String("facility_id", facility.ID.String()))
		return nil, store.NewStoreError("facility", "create", "insert failed", MapError(err))
	}

	rec := store.FacilityRecord{
		ID:          facility.ID,
		Name:        facility.Name,
		Location:    geo.NewGeoJSONPoint(*facility.Location),
		AddressLine: facility.AddressLine,
		City:        facility.City,
		Country:     facility.Country,
		Image:       facility.Image,
		UserID:      facility.UserID,
		CreatedAt:   &createdAt,
	}

	log.Info("facility created successfully", slog.String("facility_id", facility.ID.String()))
	return &rec, nil
}

// Update implements store.FacilityStore.Update
// An empty patch returns the current record unchanged.
// Returns store.ErrFacilityNotFound if the facility does not exist.
func (s *PostgresFacilityStore) Update(
	ctx context.Context,
	id uuid.UUID,
	patch store.FacilityPatch,
) (*store.FacilityRecord, error) {
	if patch.IsEmpty() {
		return s.GetByID(ctx, id)
	}

	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		sets []string
		args []any
	)
	set := func(column, placeholder string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = "+placeholder, column, len(args)))
	}

	if patch.Name != nil {
		set("name", "$%d", *patch.Name)
	}
	if patch.Location != nil {
		if err := patch.Location.Validate(); err != nil {
			return nil, err
		}
		set("location", "ST_GeogFromText($%d)", geo.EncodePoint(*patch.Location))
	}
	if patch.AddressLine != nil {
		set("address_line", "$%d", *patch.AddressLine)
	}
	if patch.City != nil {
		set("city", "$%d", *patch.City)
	}
	if patch.Country != nil {
		set("country", "$%d", *patch.Country)
	}
	if patch.Image != nil {
		set("image", "$%d", *patch.Image)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE facilities SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "),
		len(args),
		facilityColumns,
	)

	qctx, cancel := s.opts.queryContext(ctx)
	defer cancel()

	rec, err := scanGeoJSONRow(s.db.QueryRowContext(qctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("facility not found for update", slog.String("facility_id", id.String()))
			return nil, store.ErrFacilityNotFound
		}
		log.Error("failed to update facility",
			slog.String("error", redact.Error(err)),
			slog.String("facility_id", id.String()))
		return nil, store.NewStoreError("facility", "update", "update failed", MapError(err))
	}

	log.Info("facility updated successfully",
		slog.String("facility_id", id.String()),
		slog.Int("fields", len(sets)))
	return &rec, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (s *PostgresFacilityStore) queryRecords(
	ctx context.Context,
	operation string,
	query string,
	scan func(rowScanner) (store.FacilityRecord, error),
	args ...any,
) ([]store.FacilityRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("operation", operation))

	qctx, cancel := s.opts.queryContext(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(qctx, query, args...)
	if err != nil {
		log.Error("facility query failed", slog.String("error", redact.Error(err)))
		return nil, store.NewStoreError("facility", operation, "query failed", MapError(err))
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	records := []store.FacilityRecord{}
	for rows.Next() {
		rec, err := scan(rows)
		if err != nil {
			log.Error("failed to scan facility row", slog.String("error", redact.Error(err)))
			return nil, store.NewStoreError("facility", operation, "scan failed", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", redact.Error(err)))
		return nil, store.NewStoreError("facility", operation, "row iteration failed", MapError(err))
	}

	log.Debug("facility query completed", slog.Int("count", len(records)))
	return records, nil
}

// scanPointRow scans a row whose location comes as separate latitude and
// longitude columns followed by distance_km. withOwner adds the user_id
// and created_at columns before the distance.
func scanPointRow(sc rowScanner, withOwner bool) (store.FacilityRecord, error) {
	var (
		rec      store.FacilityRecord
		lat, lon sql.NullFloat64
	)
	dest := []any{&rec.ID, &rec.Name, &lat, &lon, &rec.AddressLine, &rec.City, &rec.Country, &rec.Image}
	if withOwner {
		dest = append(dest, &rec.UserID, &rec.CreatedAt)
	}
	dest = append(dest, &rec.DistanceKm)

	if err := sc.Scan(dest...); err != nil {
		return store.FacilityRecord{}, err
	}
	if lat.Valid && lon.Valid {
		rec.Location = geo.LatLonFields{Latitude: lat.Float64, Longitude: lon.Float64}
	}
	return rec, nil
}

// scanGeoJSONRow scans a row selected with facilityColumns.
func scanGeoJSONRow(sc rowScanner) (store.FacilityRecord, error) {
	var (
		rec      store.FacilityRecord
		location []byte
	)
	err := sc.Scan(
		&rec.ID,
		&rec.Name,
		&location,
		&rec.AddressLine,
		&rec.City,
		&rec.Country,
		&rec.Image,
		&rec.UserID,
		&rec.CreatedAt,
	)
	if err != nil {
		return store.FacilityRecord{}, err
	}
	if location != nil {
		rec.Location = geo.ParseRawLocation(location)
	}
	return rec, nil
}
