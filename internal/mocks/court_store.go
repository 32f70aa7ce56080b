package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/court-service/internal/domain"
	"github.com/phrazzld/court-service/internal/store"
)

// MockCourtStore implements store.CourtStore for testing
type MockCourtStore struct {
	CreateFn         func(ctx context.Context, court *domain.Court) error
	ListByFacilityFn func(ctx context.Context, facilityID uuid.UUID) ([]domain.Court, error)

	// Courts holds the courts created through the default implementation.
	Courts []domain.Court
}

// Ensure MockCourtStore implements store.CourtStore
var _ store.CourtStore = (*MockCourtStore)(nil)

// Create implements store.CourtStore.
func (m *MockCourtStore) Create(ctx context.Context, court *domain.Court) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, court)
	}
	m.Courts = append(m.Courts, *court)
	return nil
}

// ListByFacility implements store.CourtStore.
func (m *MockCourtStore) ListByFacility(ctx context.Context, facilityID uuid.UUID) ([]domain.Court, error) {
	if m.ListByFacilityFn != nil {
		return m.ListByFacilityFn(ctx, facilityID)
	}
	courts := []domain.Court{}
	for _, c := range m.Courts {
		if c.FacilityID == facilityID {
			courts = append(courts, c)
		}
	}
	return courts, nil
}

// WithTx implements store.CourtStore. The mock ignores the transaction.
func (m *MockCourtStore) WithTx(tx *sql.Tx) store.CourtStore {
	return m
}
