package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/court-service/internal/domain"
	"github.com/phrazzld/court-service/internal/mocks"
	"github.com/phrazzld/court-service/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourtService(t *testing.T) {
	facilityID := uuid.New()
	newSvc := func(t *testing.T) (CourtService, *mocks.MockFacilityStore, *mocks.MockCourtStore) {
		t.Helper()
		facilities := &mocks.MockFacilityStore{Records: []store.FacilityRecord{{ID: facilityID}}}
		courts := &mocks.MockCourtStore{}
		svc, err := NewCourtService(facilities, courts, nil)
		require.NoError(t, err)
		return svc, facilities, courts
	}

	t.Run("add and list", func(t *testing.T) {
		svc, _, courts := newSvc(t)

		court, err := svc.AddCourt(context.Background(), facilityID, CourtInput{
			Name: "Court 1", Sport: " pickleball ", SlotDurationMinutes: 30, MinBookingMinutes: 30, MaxBookingMinutes: 90,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.SportPickleball, court.Sport)
		assert.Len(t, courts.Courts, 1)

		list, err := svc.ListCourts(context.Background(), facilityID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, court.ID, list[0].ID)
	})

	t.Run("unlisted sport kept", func(t *testing.T) {
		svc, _, _ := newSvc(t)

		court, err := svc.AddCourt(context.Background(), facilityID, CourtInput{
			Name: "Wall", Sport: "racquetball", SlotDurationMinutes: 60, MinBookingMinutes: 60, MaxBookingMinutes: 60,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.Sport("RACQUETBALL"), court.Sport)
		assert.False(t, court.Sport.IsKnown())
	})

	t.Run("unknown facility on add", func(t *testing.T) {
		svc, _, courts := newSvc(t)
		courts.CreateFn = func(ctx context.Context, court *domain.Court) error {
			return store.ErrFacilityNotFound
		}

		_, err := svc.AddCourt(context.Background(), uuid.New(), CourtInput{
			Name: "Court", Sport: "PADEL", SlotDurationMinutes: 60, MinBookingMinutes: 60, MaxBookingMinutes: 60,
		})
		assert.ErrorIs(t, err, ErrFacilityNotFound)
	})

	t.Run("unknown facility on list", func(t *testing.T) {
		svc, _, _ := newSvc(t)

		_, err := svc.ListCourts(context.Background(), uuid.New())
		assert.ErrorIs(t, err, ErrFacilityNotFound)
	})

	t.Run("booking bounds", func(t *testing.T) {
		svc, _, courts := newSvc(t)

		_, err := svc.AddCourt(context.Background(), facilityID, CourtInput{
			Name: "Court", Sport: "PADEL", SlotDurationMinutes: 60, MinBookingMinutes: 90, MaxBookingMinutes: 60,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidDuration)
		assert.Empty(t, courts.Courts)
	})
}
