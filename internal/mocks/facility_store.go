package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/court-service/internal/domain"
	"github.com/phrazzld/court-service/internal/geo"
	"github.com/phrazzld/court-service/internal/store"
)

// MockFacilityStore implements store.FacilityStore for testing.
//
// Each method calls its Fn field when set. Without one, the search methods
// return the canned Nearby, FunctionRows or Records slices, and the CRUD
// methods operate on Records in memory.
type MockFacilityStore struct {
	QueryNearbyFn        func(ctx context.Context, center domain.Point, radiusMeters float64) ([]store.FacilityRecord, error)
	CallNearbyFunctionFn func(ctx context.Context, center domain.Point, radiusMeters float64) ([]store.FacilityRecord, error)
	ListAllFn            func(ctx context.Context) ([]store.FacilityRecord, error)
	CreateFn             func(ctx context.Context, facility *domain.Facility) (*store.FacilityRecord, error)
	GetByIDFn            func(ctx context.Context, id uuid.UUID) (*store.FacilityRecord, error)
	ListByUserFn         func(ctx context.Context, userID uuid.UUID) ([]store.FacilityRecord, error)
	UpdateFn             func(ctx context.Context, id uuid.UUID, patch store.FacilityPatch) (*store.FacilityRecord, error)

	Nearby       []store.FacilityRecord
	FunctionRows []store.FacilityRecord
	Records      []store.FacilityRecord

	mu    sync.Mutex
	calls map[string]int
}

// Ensure MockFacilityStore implements store.FacilityStore
var _ store.FacilityStore = (*MockFacilityStore)(nil)

// Calls returns how many times the named method was invoked.
func (m *MockFacilityStore) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

func (m *MockFacilityStore) record(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[method]++
}

// QueryNearby implements store.FacilityStore.
func (m *MockFacilityStore) QueryNearby(
	ctx context.Context,
	center domain.Point,
	radiusMeters float64,
) ([]store.FacilityRecord, error) {
	m.record("QueryNearby")
	if m.QueryNearbyFn != nil {
		return m.QueryNearbyFn(ctx, center, radiusMeters)
	}
	return m.Nearby, nil
}

// CallNearbyFunction implements store.FacilityStore.
func (m *MockFacilityStore) CallNearbyFunction(
	ctx context.Context,
	center domain.Point,
	radiusMeters float64,
) ([]store.FacilityRecord, error) {
	m.record("CallNearbyFunction")
	if m.CallNearbyFunctionFn != nil {
		return m.CallNearbyFunctionFn(ctx, center, radiusMeters)
	}
	return m.FunctionRows, nil
}

// ListAll implements store.FacilityStore.
func (m *MockFacilityStore) ListAll(ctx context.Context) ([]store.FacilityRecord, error) {
	m.record("ListAll")
	if m.ListAllFn != nil {
		return m.ListAllFn(ctx)
	}
	return m.Records, nil
}

// Create implements store.FacilityStore.
func (m *MockFacilityStore) Create(ctx context.Context, facility *domain.Facility) (*store.FacilityRecord, error) {
	m.record("Create")
	if m.CreateFn != nil {
		return m.CreateFn(ctx, facility)
	}

	rec := store.FacilityRecord{
		ID:          facility.ID,
		Name:        facility.Name,
		AddressLine: facility.AddressLine,
		City:        facility.City,
		Country:     facility.Country,
		Image:       facility.Image,
		UserID:      facility.UserID,
	}
	if facility.Location != nil {
		rec.Location = geo.NewGeoJSONPoint(*facility.Location)
	}
	m.Records = append(m.Records, rec)
	return &rec, nil
}

// GetByID implements store.FacilityStore.
func (m *MockFacilityStore) GetByID(ctx context.Context, id uuid.UUID) (*store.FacilityRecord, error) {
	m.record("GetByID")
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	for i := range m.Records {
		if m.Records[i].ID == id {
			rec := m.Records[i]
			return &rec, nil
		}
	}
	return nil, store.ErrFacilityNotFound
}

// ListByUser implements store.FacilityStore.
func (m *MockFacilityStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]store.FacilityRecord, error) {
	m.record("ListByUser")
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	owned := []store.FacilityRecord{}
	for _, rec := range m.Records {
		if rec.UserID != nil && *rec.UserID == userID {
			owned = append(owned, rec)
		}
	}
	return owned, nil
}

// Update implements store.FacilityStore.
func (m *MockFacilityStore) Update(
	ctx context.Context,
	id uuid.UUID,
	patch store.FacilityPatch,
) (*store.FacilityRecord, error) {
	m.record("Update")
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, patch)
	}
	for i := range m.Records {
		if m.Records[i].ID != id {
			continue
		}
		rec := &m.Records[i]
		if patch.Name != nil {
			rec.Name = patch.Name
		}
		if patch.Location != nil {
			rec.Location = geo.NewGeoJSONPoint(*patch.Location)
		}
		if patch.AddressLine != nil {
			rec.AddressLine = patch.AddressLine
		}
		if patch.City != nil {
			rec.City = patch.City
		}
		if patch.Country != nil {
			rec.Country = patch.Country
		}
		if patch.Image != nil {
			rec.Image = patch.Image
		}
		updated := *rec
		return &updated, nil
	}
	return nil, store.ErrFacilityNotFound
}

// WithTx implements store.FacilityStore. The mock ignores the transaction.
func (m *MockFacilityStore) WithTx(tx *sql.Tx) store.FacilityStore {
	return m
}
