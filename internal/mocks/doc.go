// Package mocks provides hand-written test doubles for the store and auth
// interfaces.
//
// Every mock exposes one function field per interface method. Tests set the
// fields they care about and rely on the default in-memory behaviour for the
// rest:
//
//	facilities := &mocks.MockFacilityStore{
//	    QueryNearbyFn: func(ctx context.Context, center domain.Point, radiusMeters float64) ([]store.FacilityRecord, error) {
//	        return nil, errors.New("spatial query unavailable")
//	    },
//	}
//
// MockFacilityStore also counts calls per method, which lets search tests
// assert that later strategies were never attempted.
package mocks
