package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/court-service/internal/domain"
	"github.com/phrazzld/court-service/internal/geo"
	"github.com/phrazzld/court-service/internal/mocks"
	"github.com/phrazzld/court-service/internal/platform/logger"
	"github.com/phrazzld/court-service/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type facilityFixture struct {
	svc        FacilityService
	facilities *mocks.MockFacilityStore
	courts     *mocks.MockCourtStore
	sqlMock    sqlmock.Sqlmock
}

func newFacilityFixture(t *testing.T) *facilityFixture {
	t.Helper()
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	facilities := &mocks.MockFacilityStore{}
	courts := &mocks.MockCourtStore{}
	log, _ := logger.NewTestLogger()

	svc, err := NewFacilityService(db, facilities, courts, log)
	require.NoError(t, err)
	return &facilityFixture{svc: svc, facilities: facilities, courts: courts, sqlMock: sqlMock}
}

func TestNewFacilityService_NilDependencies(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = NewFacilityService(nil, &mocks.MockFacilityStore{}, &mocks.MockCourtStore{}, nil)
	assert.Error(t, err)
	_, err = NewFacilityService(db, nil, &mocks.MockCourtStore{}, nil)
	assert.Error(t, err)
	_, err = NewFacilityService(db, &mocks.MockFacilityStore{}, nil, nil)
	assert.Error(t, err)
}

func TestCreateFacility(t *testing.T) {
	t.Run("with courts in one transaction", func(t *testing.T) {
		fx := newFacilityFixture(t)
		fx.sqlMock.ExpectBegin()
		fx.sqlMock.ExpectCommit()

		owner := uuid.New()
		created, err := fx.svc.CreateFacility(context.Background(), CreateFacilityInput{
			Name:     ptr("Tivoli"),
			Location: domain.Point{Latitude: 46.05, Longitude: 14.5},
			City:     ptr("Ljubljana"),
			UserID:   &owner,
			Courts: []CourtInput{
				{Name: "Court 1", Sport: "padel", Indoor: true, SlotDurationMinutes: 60, MinBookingMinutes: 60, MaxBookingMinutes: 120},
				{Name: "Court 2", Sport: "TENNIS", SlotDurationMinutes: 60, MinBookingMinutes: 60, MaxBookingMinutes: 60},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, "Tivoli", *created.Name)
		assert.Equal(t, &domain.Point{Latitude: 46.05, Longitude: 14.5}, created.Location)
		assert.Equal(t, owner, *created.UserID)
		require.Len(t, created.Courts, 2)
		assert.Equal(t, domain.SportPadel, created.Courts[0].Sport)
		for _, c := range created.Courts {
			assert.Equal(t, created.ID, c.FacilityID)
		}
		assert.Len(t, fx.courts.Courts, 2)
		assert.NoError(t, fx.sqlMock.ExpectationsWereMet())
	})

	t.Run("court failure rolls back", func(t *testing.T) {
		fx := newFacilityFixture(t)
		fx.courts.CreateFn = func(ctx context.Context, court *domain.Court) error {
			return errors.New("insert failed")
		}
		fx.sqlMock.ExpectBegin()
		fx.sqlMock.ExpectRollback()

		_, err := fx.svc.CreateFacility(context.Background(), CreateFacilityInput{
			Location: ljubljana,
			Courts: []CourtInput{
				{Name: "Court 1", Sport: "SQUASH", SlotDurationMinutes: 45, MinBookingMinutes: 45, MaxBookingMinutes: 90},
			},
		})
		require.Error(t, err)
		var svcErr *ServiceError
		assert.ErrorAs(t, err, &svcErr)
		assert.NoError(t, fx.sqlMock.ExpectationsWereMet())
	})

	t.Run("invalid court rejected before any write", func(t *testing.T) {
		fx := newFacilityFixture(t)

		_, err := fx.svc.CreateFacility(context.Background(), CreateFacilityInput{
			Location: ljubljana,
			Courts:   []CourtInput{{Name: "Bad", Sport: "PADEL", SlotDurationMinutes: 200, MinBookingMinutes: 30, MaxBookingMinutes: 60}},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidDuration)
		assert.Equal(t, 0, fx.facilities.Calls("Create"))
		assert.NoError(t, fx.sqlMock.ExpectationsWereMet())
	})

	t.Run("invalid location", func(t *testing.T) {
		fx := newFacilityFixture(t)

		_, err := fx.svc.CreateFacility(context.Background(), CreateFacilityInput{
			Location: domain.Point{Latitude: 120, Longitude: 0},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidCoordinates)
	})
}

func TestGetFacility(t *testing.T) {
	t.Run("with courts", func(t *testing.T) {
		fx := newFacilityFixture(t)
		id := uuid.New()
		fx.facilities.Records = []store.FacilityRecord{
			{ID: id, Name: ptr("Tivoli"), Location: geo.NewGeoJSONPoint(ljubljana)},
		}
		fx.courts.Courts = []domain.Court{
			{ID: uuid.New(), FacilityID: id, Name: "Centre", Sport: domain.SportTennis},
			{ID: uuid.New(), FacilityID: uuid.New(), Name: "Elsewhere", Sport: domain.SportTennis},
		}

		f, err := fx.svc.GetFacility(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, &ljubljana, f.Location)
		require.Len(t, f.Courts, 1)
		assert.Equal(t, "Centre", f.Courts[0].Name)
	})

	t.Run("not found", func(t *testing.T) {
		fx := newFacilityFixture(t)

		_, err := fx.svc.GetFacility(context.Background(), uuid.New())
		assert.ErrorIs(t, err, ErrFacilityNotFound)
	})

	t.Run("undecodable location still returned", func(t *testing.T) {
		fx := newFacilityFixture(t)
		id := uuid.New()
		fx.facilities.Records = []store.FacilityRecord{
			{ID: id, Location: geo.GeoJSONPoint{Type: "Point", Coordinates: []float64{200, 46}}},
		}

		f, err := fx.svc.GetFacility(context.Background(), id)
		require.NoError(t, err)
		assert.True(t, f.LocationUnresolved)
	})
}

func TestListFacilities(t *testing.T) {
	fx := newFacilityFixture(t)
	owner := uuid.New()
	fx.facilities.Records = []store.FacilityRecord{
		{ID: uuid.New(), UserID: &owner, Location: geo.NewGeoJSONPoint(ljubljana)},
		{ID: uuid.New()},
	}

	all, err := fx.svc.ListFacilities(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Nil(t, all[1].Location)

	mine, err := fx.svc.ListUserFacilities(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, owner, *mine[0].UserID)

	fx.facilities.ListAllFn = func(ctx context.Context) ([]store.FacilityRecord, error) {
		return nil, sql.ErrConnDone
	}
	_, err = fx.svc.ListFacilities(context.Background())
	assert.ErrorIs(t, err, sql.ErrConnDone)
}

func TestUpdateFacility(t *testing.T) {
	fx := newFacilityFixture(t)
	id := uuid.New()
	fx.facilities.Records = []store.FacilityRecord{
		{ID: id, Name: ptr("Old"), Location: geo.NewGeoJSONPoint(ljubljana)},
	}

	moved := domain.Point{Latitude: 46.1, Longitude: 14.6}
	f, err := fx.svc.UpdateFacility(context.Background(), id, FacilityUpdate{Name: ptr("New"), Location: &moved})
	require.NoError(t, err)
	assert.Equal(t, "New", *f.Name)
	assert.Equal(t, &moved, f.Location)

	_, err = fx.svc.UpdateFacility(context.Background(), uuid.New(), FacilityUpdate{Name: ptr("x")})
	assert.ErrorIs(t, err, ErrFacilityNotFound)

	bad := domain.Point{Latitude: 0, Longitude: 181}
	_, err = fx.svc.UpdateFacility(context.Background(), id, FacilityUpdate{Location: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidCoordinates)
}
