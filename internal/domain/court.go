package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Sport is the sport a court is built for. Values outside the known set are
// allowed and stored as given.
type Sport string

// Known sport values
const (
	SportTennis     Sport = "TENNIS"
	SportPadel      Sport = "PADEL"
	SportBadminton  Sport = "BADMINTON"
	SportPickleball Sport = "PICKLEBALL"
	SportSquash     Sport = "SQUASH"
	SportOther      Sport = "OTHER"
)

// Court duration bounds in minutes.
const (
	MinSlotDurationMinutes    = 30
	MaxSlotDurationMinutes    = 120
	MinBookingDurationMinutes = 30
)

// IsKnown reports whether s is one of the predefined sports.
func (s Sport) IsKnown() bool {
	switch s {
	case SportTennis, SportPadel, SportBadminton, SportPickleball, SportSquash, SportOther:
		return true
	default:
		return false
	}
}

// NormalizeSport upper-cases and trims a sport name so that "padel" and
// "PADEL" refer to the same known value.
func NormalizeSport(s string) Sport {
	return Sport(strings.ToUpper(strings.TrimSpace(s)))
}

// Court is a bookable playing surface that belongs to exactly one Facility.
type Court struct {
	ID                  uuid.UUID `json:"id"`
	FacilityID          uuid.UUID `json:"facility_id"`
	Name                string    `json:"name"`
	Sport               Sport     `json:"sport"`
	Indoor              bool      `json:"indoor"`
	SlotDurationMinutes int       `json:"slot_duration_minutes"`
	MinBookingMinutes   int       `json:"min_booking_minutes"`
	MaxBookingMinutes   int       `json:"max_booking_minutes"`
}

// NewCourt creates a Court for the given facility with a fresh ID.
// Returns an error if validation fails.
func NewCourt(
	facilityID uuid.UUID,
	name string,
	sport Sport,
	indoor bool,
	slotMinutes, minBooking, maxBooking int,
) (*Court, error) {
	court := &Court{
		ID:                  uuid.New(),
		FacilityID:          facilityID,
		Name:                name,
		Sport:               sport,
		Indoor:              indoor,
		SlotDurationMinutes: slotMinutes,
		MinBookingMinutes:   minBooking,
		MaxBookingMinutes:   maxBooking,
	}

	if err := court.Validate(); err != nil {
		return nil, err
	}

	return court, nil
}

// Validate checks if the Court has valid data.
func (c *Court) Validate() error {
	if c.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if c.FacilityID == uuid.Nil {
		return NewValidationError("facility_id", "cannot be empty", ErrInvalidID)
	}
	if strings.TrimSpace(c.Name) == "" {
		return NewValidationError("name", "cannot be empty", nil)
	}
	if strings.TrimSpace(string(c.Sport)) == "" {
		return NewValidationError("sport", "cannot be empty", nil)
	}
	if c.SlotDurationMinutes < MinSlotDurationMinutes || c.SlotDurationMinutes > MaxSlotDurationMinutes {
		return NewValidationError("slot_duration_minutes", "must be between 30 and 120", ErrInvalidDuration)
	}
	if c.MinBookingMinutes < MinBookingDurationMinutes {
		return NewValidationError("min_booking_minutes", "must be at least 30", ErrInvalidDuration)
	}
	if c.MaxBookingMinutes < c.MinBookingMinutes {
		return NewValidationError("max_booking_minutes", "must not be less than min_booking_minutes", ErrInvalidDuration)
	}
	return nil
}
