package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/court-service/internal/api/shared"
	"github.com/phrazzld/court-service/internal/domain"
	"github.com/phrazzld/court-service/internal/service"
	"github.com/stretchr/testify/require"
)

// MockNearbySearcher is a mock implementation of NearbySearcher for testing
type MockNearbySearcher struct {
	SearchFn func(ctx context.Context, req service.SearchRequest) (*service.SearchResult, error)
	Requests []service.SearchRequest
}

// Search implements NearbySearcher
func (m *MockNearbySearcher) Search(ctx context.Context, req service.SearchRequest) (*service.SearchResult, error) {
	m.Requests = append(m.Requests, req)
	if m.SearchFn != nil {
		return m.SearchFn(ctx, req)
	}
	return &service.SearchResult{Facilities: []domain.Facility{}, Stage: service.StageSpatialQuery, RadiusApplied: true}, nil
}

// MockFacilityService is a mock implementation of service.FacilityService for testing
type MockFacilityService struct {
	CreateFacilityFn     func(ctx context.Context, in service.CreateFacilityInput) (*domain.Facility, error)
	GetFacilityFn        func(ctx context.Context, id uuid.UUID) (*domain.Facility, error)
	ListFacilitiesFn     func(ctx context.Context) ([]domain.Facility, error)
	ListUserFacilitiesFn func(ctx context.Context, userID uuid.UUID) ([]domain.Facility, error)
	UpdateFacilityFn     func(ctx context.Context, id uuid.UUID, update service.FacilityUpdate) (*domain.Facility, error)
}

var _ service.FacilityService = (*MockFacilityService)(nil)

// CreateFacility implements service.FacilityService
func (m *MockFacilityService) CreateFacility(ctx context.Context, in service.CreateFacilityInput) (*domain.Facility, error) {
	if m.CreateFacilityFn != nil {
		return m.CreateFacilityFn(ctx, in)
	}
	return nil, nil
}

// GetFacility implements service.FacilityService
func (m *MockFacilityService) GetFacility(ctx context.Context, id uuid.UUID) (*domain.Facility, error) {
	if m.GetFacilityFn != nil {
		return m.GetFacilityFn(ctx, id)
	}
	return nil, service.ErrFacilityNotFound
}

// ListFacilities implements service.FacilityService
func (m *MockFacilityService) ListFacilities(ctx context.Context) ([]domain.Facility, error) {
	if m.ListFacilitiesFn != nil {
		return m.ListFacilitiesFn(ctx)
	}
	return []domain.Facility{}, nil
}

// ListUserFacilities implements service.FacilityService
func (m *MockFacilityService) ListUserFacilities(ctx context.Context, userID uuid.UUID) ([]domain.Facility, error) {
	if m.ListUserFacilitiesFn != nil {
		return m.ListUserFacilitiesFn(ctx, userID)
	}
	return []domain.Facility{}, nil
}

// UpdateFacility implements service.FacilityService
func (m *MockFacilityService) UpdateFacility(
	ctx context.Context,
	id uuid.UUID,
	update service.FacilityUpdate,
) (*domain.Facility, error) {
	if m.UpdateFacilityFn != nil {
		return m.UpdateFacilityFn(ctx, id, update)
	}
	return nil, service.ErrFacilityNotFound
}

// MockCourtService is a mock implementation of service.CourtService for testing
type MockCourtService struct {
	AddCourtFn   func(ctx context.Context, facilityID uuid.UUID, in service.CourtInput) (*domain.Court, error)
	ListCourtsFn func(ctx context.Context, facilityID uuid.UUID) ([]domain.Court, error)
}

var _ service.CourtService = (*MockCourtService)(nil)

// AddCourt implements service.CourtService
func (m *MockCourtService) AddCourt(ctx context.Context, facilityID uuid.UUID, in service.CourtInput) (*domain.Court, error) {
	if m.AddCourtFn != nil {
		return m.AddCourtFn(ctx, facilityID, in)
	}
	return nil, nil
}

// ListCourts implements service.CourtService
func (m *MockCourtService) ListCourts(ctx context.Context, facilityID uuid.UUID) ([]domain.Court, error) {
	if m.ListCourtsFn != nil {
		return m.ListCourtsFn(ctx, facilityID)
	}
	return []domain.Court{}, nil
}

func ptr[T any](v T) *T { return &v }

// newJSONRequest builds a request with a JSON body, a trace ID, and chi
// URL parameters given as name/value pairs.
func newJSONRequest(t *testing.T, method, target string, body interface{}, params ...string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")

	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(params); i += 2 {
		rctx.URLParams.Add(params[i], params[i+1])
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, shared.TraceIDKey, "test-trace-id")
	return req.WithContext(ctx)
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
