package domain

import (
	"time"

	"github.com/google/uuid"
)

// Facility is a sports venue that hosts one or more courts.
//
// Optional fields are pointers so that a partially populated record (for
// example a search result from a degraded strategy) never carries
// misleading zero values.
type Facility struct {
	ID   uuid.UUID
	Name *string

	// Location is nil when the facility has no stored location. When the
	// stored location could not be decoded, Location holds the explicit
	// zero Point and LocationUnresolved is true.
	Location           *Point
	LocationUnresolved bool

	AddressLine *string
	City        *string
	Country     *string
	Image       *string

	UserID    *uuid.UUID
	CreatedAt *time.Time

	// DistanceKm is set only on nearby search results that carry a
	// store-computed distance.
	DistanceKm *float64

	Courts []Court
}

// NewFacility creates a Facility with a fresh ID at the given location.
func NewFacility(location Point) (*Facility, error) {
	if err := location.Validate(); err != nil {
		return nil, err
	}
	return &Facility{
		ID:       uuid.New(),
		Location: &location,
	}, nil
}

// Validate checks the facility's identity and location.
func (f *Facility) Validate() error {
	if f.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if f.Location != nil && !f.LocationUnresolved {
		if err := f.Location.Validate(); err != nil {
			return err
		}
	}
	for i := range f.Courts {
		if err := f.Courts[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// HasResolvedLocation reports whether Location is a real, decoded point.
func (f *Facility) HasResolvedLocation() bool {
	return f.Location != nil && !f.LocationUnresolved
}
