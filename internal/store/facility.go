package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/court-service/internal/domain"
	"github.com/phrazzld/court-service/internal/geo"
)

// FacilityRecord is a facility row as returned by the store. Location is
// left in whatever encoding the query produced; converting it to a
// domain.Point is the caller's job. Nil fields were absent from the
// payload.
type FacilityRecord struct {
	ID          uuid.UUID
	Name        *string
	Location    geo.RawLocation
	AddressLine *string
	City        *string
	Country     *string
	Image       *string
	UserID      *uuid.UUID
	CreatedAt   *time.Time
	DistanceKm  *float64
}

// FacilityPatch lists the fields of a facility to change. Nil fields are
// left untouched.
type FacilityPatch struct {
	Name        *string
	Location    *domain.Point
	AddressLine *string
	City        *string
	Country     *string
	Image       *string
}

// IsEmpty reports whether the patch changes nothing.
func (p FacilityPatch) IsEmpty() bool {
	return p.Name == nil && p.Location == nil && p.AddressLine == nil &&
		p.City == nil && p.Country == nil && p.Image == nil
}

// FacilityStore defines the interface for facility persistence and the
// spatial capabilities the store exposes.
type FacilityStore interface {
	// QueryNearby runs a radius-bounded spatial query around center and
	// returns rows ordered by ascending distance, each with DistanceKm set.
	QueryNearby(ctx context.Context, center domain.Point, radiusMeters float64) ([]FacilityRecord, error)

	// CallNearbyFunction calls the store-side nearby search function with
	// (latitude, longitude, radius in meters). Rows are returned as the
	// function produced them.
	CallNearbyFunction(ctx context.Context, center domain.Point, radiusMeters float64) ([]FacilityRecord, error)

	// ListAll returns every facility, unfiltered and in no particular order.
	ListAll(ctx context.Context) ([]FacilityRecord, error)

	// Create inserts a new facility and returns the stored record.
	// Returns validation errors from the domain Facility if data is invalid.
	Create(ctx context.Context, facility *domain.Facility) (*FacilityRecord, error)

	// GetByID retrieves a facility by its unique ID.
	// Returns ErrFacilityNotFound if the facility does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*FacilityRecord, error)

	// ListByUser returns the facilities owned by userID.
	// Returns an empty slice if the user owns none.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]FacilityRecord, error)

	// Update applies patch to the facility and returns the stored record.
	// Returns ErrFacilityNotFound if the facility does not exist.
	Update(ctx context.Context, id uuid.UUID, patch FacilityPatch) (*FacilityRecord, error)

	// WithTx returns a new FacilityStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) FacilityStore
}
