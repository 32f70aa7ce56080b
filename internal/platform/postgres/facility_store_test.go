package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/court-service/internal/domain"
	"github.com/phrazzld/court-service/internal/geo"
	"github.com/phrazzld/court-service/internal/platform/logger"
	"github.com/phrazzld/court-service/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ljubljana = domain.Point{Latitude: 46.0569, Longitude: 14.5058}

var (
	pointColumns = []string{
		"id", "name", "latitude", "longitude", "address_line", "city", "country", "image",
		"user_id", "created_at", "distance_km",
	}
	functionColumns = []string{
		"id", "name", "latitude", "longitude", "address_line", "city", "country", "image", "distance_km",
	}
	geoJSONColumns = []string{
		"id", "name", "location", "address_line", "city", "country", "image", "user_id", "created_at",
	}
)

func newMockFacilityStore(t *testing.T, opts ...StoreOption) (*PostgresFacilityStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log, _ := logger.NewTestLogger()
	return NewPostgresFacilityStore(db, log, opts...), mock
}

func TestNewPostgresFacilityStore_NilDB(t *testing.T) {
	assert.Panics(t, func() { NewPostgresFacilityStore(nil, nil) })
}

func TestQueryNearby(t *testing.T) {
	s, mock := newMockFacilityStore(t)

	nearID := uuid.New()
	farID := uuid.New()
	owner := uuid.New()
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`ST_DWithin\(location, ST_GeogFromText\(\$1\), \$2\)`).
		WithArgs("POINT(14.5058 46.0569)", 10000.0).
		WillReturnRows(sqlmock.NewRows(pointColumns).
			AddRow(nearID.String(), "Tivoli Courts", 46.05, 14.50, nil, "Ljubljana", "SI", nil,
				owner.String(), created, 0.7).
			AddRow(farID.String(), nil, 46.1, 14.6, nil, nil, nil, nil, nil, nil, 8.0))

	records, err := s.QueryNearby(context.Background(), ljubljana, 10000)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, nearID, first.ID)
	require.NotNil(t, first.Name)
	assert.Equal(t, "Tivoli Courts", *first.Name)
	assert.Equal(t, geo.LatLonFields{Latitude: 46.05, Longitude: 14.50}, first.Location)
	require.NotNil(t, first.UserID)
	assert.Equal(t, owner, *first.UserID)
	require.NotNil(t, first.CreatedAt)
	assert.True(t, created.Equal(*first.CreatedAt))
	require.NotNil(t, first.DistanceKm)
	assert.InDelta(t, 0.7, *first.DistanceKm, 1e-9)
	assert.Nil(t, first.AddressLine)

	second := records[1]
	assert.Nil(t, second.Name)
	assert.Nil(t, second.UserID)
	assert.InDelta(t, 8.0, *second.DistanceKm, 1e-9)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryNearby_EmptyResult(t *testing.T) {
	s, mock := newMockFacilityStore(t)

	mock.ExpectQuery(`ST_DWithin`).WillReturnRows(sqlmock.NewRows(pointColumns))

	records, err := s.QueryNearby(context.Background(), ljubljana, 500)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestQueryNearby_MissingPostGIS(t *testing.T) {
	s, mock := newMockFacilityStore(t)

	mock.ExpectQuery(`ST_DWithin`).
		WillReturnError(&pgconn.PgError{Code: "42883", Message: "function st_dwithin does not exist"})

	_, err := s.QueryNearby(context.Background(), ljubljana, 10000)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCapabilityMissing)

	var storeErr *store.StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "query_nearby", storeErr.Operation)
}

func TestCallNearbyFunction(t *testing.T) {
	t.Run("default function", func(t *testing.T) {
		s, mock := newMockFacilityStore(t)
		id := uuid.New()

		mock.ExpectQuery(`FROM "get_nearby_facilities"\(\$1, \$2, \$3\)`).
			WithArgs(46.0569, 14.5058, 10000.0).
			WillReturnRows(sqlmock.NewRows(functionColumns).
				AddRow(id.String(), "Tivoli Courts", 46.05, 14.50, nil, nil, nil, nil, 0.7))

		records, err := s.CallNearbyFunction(context.Background(), ljubljana, 10000)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, id, records[0].ID)
		assert.Nil(t, records[0].UserID)
		assert.Nil(t, records[0].CreatedAt)
		assert.InDelta(t, 0.7, *records[0].DistanceKm, 1e-9)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("configured function name is quoted", func(t *testing.T) {
		s, mock := newMockFacilityStore(t, WithNearbyFunction("find_courts"))

		mock.ExpectQuery(`FROM "find_courts"\(`).WillReturnRows(sqlmock.NewRows(functionColumns))

		records, err := s.CallNearbyFunction(context.Background(), ljubljana, 100)
		require.NoError(t, err)
		assert.Empty(t, records)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("null coordinates leave location unset", func(t *testing.T) {
		s, mock := newMockFacilityStore(t)

		mock.ExpectQuery(`get_nearby_facilities`).
			WillReturnRows(sqlmock.NewRows(functionColumns).
				AddRow(uuid.New().String(), nil, nil, nil, nil, nil, nil, nil, nil))

		records, err := s.CallNearbyFunction(context.Background(), ljubljana, 100)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Nil(t, records[0].Location)
		assert.Nil(t, records[0].DistanceKm)
	})
}

func TestListAll(t *testing.T) {
	s, mock := newMockFacilityStore(t)

	geoID, nullID, hexID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT id, name, ST_AsGeoJSON\(location\).* FROM facilities$`).
		WillReturnRows(sqlmock.NewRows(geoJSONColumns).
			AddRow(geoID.String(), "A", `{"type":"Point","coordinates":[14.5,46.05]}`, nil, nil, nil, nil, nil, nil).
			AddRow(nullID.String(), "B", nil, nil, nil, nil, nil, nil, nil).
			AddRow(hexID.String(), "C", "0101000020E6100000", nil, nil, nil, nil, nil, nil))

	records, err := s.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, geo.GeoJSONPoint{Type: "Point", Coordinates: []float64{14.5, 46.05}}, records[0].Location)
	assert.Nil(t, records[1].Location)
	assert.IsType(t, geo.Opaque{}, records[2].Location)
	for _, r := range records {
		assert.Nil(t, r.DistanceKm)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAll_RowError(t *testing.T) {
	s, mock := newMockFacilityStore(t)

	mock.ExpectQuery(`FROM facilities`).
		WillReturnRows(sqlmock.NewRows(geoJSONColumns).
			AddRow(uuid.New().String(), "A", nil, nil, nil, nil, nil, nil, nil).
			RowError(0, errors.New("connection reset")))

	_, err := s.ListAll(context.Background())
	require.Error(t, err)
	var storeErr *store.StoreError
	assert.True(t, errors.As(err, &storeErr))
}

func TestListByUser(t *testing.T) {
	s, mock := newMockFacilityStore(t)
	owner := uuid.New()

	mock.ExpectQuery(`WHERE user_id = \$1`).
		WithArgs(owner).
		WillReturnRows(sqlmock.NewRows(geoJSONColumns).
			AddRow(uuid.New().String(), "Mine", `{"type":"Point","coordinates":[14.5,46.05]}`,
				nil, nil, nil, nil, owner.String(), time.Now()))

	records, err := s.ListByUser(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, owner, *records[0].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		s, mock := newMockFacilityStore(t)
		id := uuid.New()

		mock.ExpectQuery(`WHERE id = \$1`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(geoJSONColumns).
				AddRow(id.String(), "Tivoli", `{"type":"Point","coordinates":[14.5,46.05]}`,
					"Celovška 25", "Ljubljana", "SI", "tivoli.jpg", nil, time.Now()))

		rec, err := s.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, rec.ID)
		assert.Equal(t, "Celovška 25", *rec.AddressLine)
		assert.Equal(t, "tivoli.jpg", *rec.Image)
	})

	t.Run("not found", func(t *testing.T) {
		s, mock := newMockFacilityStore(t)

		mock.ExpectQuery(`WHERE id = \$1`).WillReturnError(sql.ErrNoRows)

		_, err := s.GetByID(context.Background(), uuid.New())
		assert.ErrorIs(t, err, store.ErrFacilityNotFound)
		assert.True(t, store.IsNotFoundError(err))
	})
}

func TestCreateFacility(t *testing.T) {
	t.Run("inserts with WKT location", func(t *testing.T) {
		s, mock := newMockFacilityStore(t)

		facility, err := domain.NewFacility(domain.Point{Latitude: 46.05, Longitude: 14.5})
		require.NoError(t, err)
		name := "Tivoli"
		facility.Name = &name

		created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery(`INSERT INTO facilities`).
			WithArgs(facility.ID, sqlmock.AnyArg(), "POINT(14.5 46.05)",
				sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

		rec, err := s.Create(context.Background(), facility)
		require.NoError(t, err)
		assert.Equal(t, facility.ID, rec.ID)
		assert.Equal(t, geo.NewGeoJSONPoint(*facility.Location), rec.Location)
		assert.True(t, created.Equal(*rec.CreatedAt))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("location required", func(t *testing.T) {
		s, mock := newMockFacilityStore(t)

		_, err := s.Create(context.Background(), &domain.Facility{ID: uuid.New()})
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate id", func(t *testing.T) {
		s, mock := newMockFacilityStore(t)
		facility, err := domain.NewFacility(ljubljana)
		require.NoError(t, err)

		mock.ExpectQuery(`INSERT INTO facilities`).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "facilities_pkey"})

		_, err = s.Create(context.Background(), facility)
		assert.ErrorIs(t, err, store.ErrDuplicate)
	})
}

func TestUpdateFacility(t *testing.T) {
	t.Run("builds set clause from patch", func(t *testing.T) {
		s, mock := newMockFacilityStore(t)
		id := uuid.New()
		name := "Renamed"
		loc := domain.Point{Latitude: 46.1, Longitude: 14.6}

		mock.ExpectQuery(`UPDATE facilities SET name = \$1, location = ST_GeogFromText\(\$2\) WHERE id = \$3 RETURNING`).
			WithArgs("Renamed", "POINT(14.6 46.1)", id).
			WillReturnRows(sqlmock.NewRows(geoJSONColumns).
				AddRow(id.String(), "Renamed", `{"type":"Point","coordinates":[14.6,46.1]}`,
					nil, nil, nil, nil, nil, time.Now()))

		rec, err := s.Update(context.Background(), id, store.FacilityPatch{Name: &name, Location: &loc})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", *rec.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty patch reads current record", func(t *testing.T) {
		s, mock := newMockFacilityStore(t)
		id := uuid.New()

		mock.ExpectQuery(`SELECT .* FROM facilities WHERE id = \$1`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(geoJSONColumns).
				AddRow(id.String(), "Same", nil, nil, nil, nil, nil, nil, nil))

		rec, err := s.Update(context.Background(), id, store.FacilityPatch{})
		require.NoError(t, err)
		assert.Equal(t, "Same", *rec.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		s, mock := newMockFacilityStore(t)
		city := "Maribor"

		mock.ExpectQuery(`UPDATE facilities`).WillReturnError(sql.ErrNoRows)

		_, err := s.Update(context.Background(), uuid.New(), store.FacilityPatch{City: &city})
		assert.ErrorIs(t, err, store.ErrFacilityNotFound)
	})

	t.Run("invalid location", func(t *testing.T) {
		s, mock := newMockFacilityStore(t)
		bad := domain.Point{Latitude: 91, Longitude: 0}

		_, err := s.Update(context.Background(), uuid.New(), store.FacilityPatch{Location: &bad})
		assert.ErrorIs(t, err, domain.ErrInvalidCoordinates)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFacilityStoreWithTx(t *testing.T) {
	s, mock := newMockFacilityStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM facilities`).WillReturnRows(sqlmock.NewRows(geoJSONColumns))
	mock.ExpectCommit()

	db := s.db.(*sql.DB)
	err := store.RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		_, err := s.WithTx(tx).ListAll(ctx)
		return err
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
