package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/court-service/internal/domain"
)

// LocationRequest is a latitude/longitude pair in a request body. Both
// coordinates are pointers so that an omitted value is rejected rather than
// read as zero.
type LocationRequest struct {
	Latitude  *float64 `json:"latitude"  validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

func (l LocationRequest) point() domain.Point {
	return domain.Point{Latitude: *l.Latitude, Longitude: *l.Longitude}
}

// NearbyRequest defines the payload for the nearby search endpoint.
// RadiusKm defaults to the configured default radius; its upper bound is
// checked against the configured maximum by the handler.
type NearbyRequest struct {
	Latitude  *float64 `json:"latitude"  validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	RadiusKm  *float64 `json:"radius_km" validate:"omitempty,gt=0"`
}

// SearchLocation echoes the effective search parameters.
type SearchLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	RadiusKm  float64 `json:"radius_km"`
}

// NearbyResponse is the result of a nearby search. Source names the search
// strategy that produced the result; RadiusApplied is false when the
// results were not filtered by distance.
type NearbyResponse struct {
	Courts         []FacilityResponse `json:"courts"`
	TotalCount     int                `json:"total_count"`
	SearchLocation SearchLocation     `json:"search_location"`
	Source         string             `json:"source"`
	RadiusApplied  bool               `json:"radius_applied"`
}

// CourtRequest defines a court in a create request.
type CourtRequest struct {
	Name                string `json:"name"                  validate:"required,max=100"`
	Sport               string `json:"sport"                 validate:"required,max=50"`
	Indoor              bool   `json:"indoor"`
	SlotDurationMinutes int    `json:"slot_duration_minutes" validate:"gte=30,lte=120"`
	MinBookingMinutes   int    `json:"min_booking_minutes"   validate:"gte=30"`
	MaxBookingMinutes   int    `json:"max_booking_minutes"   validate:"gtefield=MinBookingMinutes"`
}

// CreateFacilityRequest defines the payload for creating a facility.
type CreateFacilityRequest struct {
	UserID      *uuid.UUID       `json:"user_id"`
	Name        *string          `json:"name"         validate:"omitempty,max=200"`
	Location    *LocationRequest `json:"location"     validate:"required"`
	AddressLine *string          `json:"address_line" validate:"omitempty,max=255"`
	City        *string          `json:"city"         validate:"omitempty,max=100"`
	Country     *string          `json:"country"      validate:"omitempty,max=100"`
	Image       *string          `json:"image"        validate:"omitempty,max=2048"`
	Courts      []CourtRequest   `json:"courts"       validate:"omitempty,dive"`
}

// UpdateFacilityRequest defines the payload for updating a facility. Omitted
// fields are left unchanged.
type UpdateFacilityRequest struct {
	Name        *string          `json:"name"         validate:"omitempty,max=200"`
	Location    *LocationRequest `json:"location"     validate:"omitempty"`
	AddressLine *string          `json:"address_line" validate:"omitempty,max=255"`
	City        *string          `json:"city"         validate:"omitempty,max=100"`
	Country     *string          `json:"country"      validate:"omitempty,max=100"`
	Image       *string          `json:"image"        validate:"omitempty,max=2048"`
}

// LocationResponse is a resolved facility location.
type LocationResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CourtResponse represents the response data for a court
type CourtResponse struct {
	ID                  uuid.UUID `json:"id"`
	FacilityID          uuid.UUID `json:"facility_id"`
	Name                string    `json:"name"`
	Sport               string    `json:"sport"`
	Indoor              bool      `json:"indoor"`
	SlotDurationMinutes int       `json:"slot_duration_minutes"`
	MinBookingMinutes   int       `json:"min_booking_minutes"`
	MaxBookingMinutes   int       `json:"max_booking_minutes"`
}

// FacilityResponse represents the response data for a facility.
//
// Location is null both when the facility has none and when the stored
// value could not be decoded; LocationUnresolved tells the two apart.
type FacilityResponse struct {
	ID                 uuid.UUID         `json:"id"`
	Name               *string           `json:"name"`
	Location           *LocationResponse `json:"location"`
	LocationUnresolved bool              `json:"location_unresolved,omitempty"`
	AddressLine        *string           `json:"address_line"`
	City               *string           `json:"city"`
	Country            *string           `json:"country"`
	Image              *string           `json:"image"`
	DistanceKm         *float64          `json:"distance_km,omitempty"`
	UserID             *uuid.UUID        `json:"user_id,omitempty"`
	CreatedAt          *time.Time        `json:"created_at,omitempty"`
}

// FacilityDetailResponse is a facility together with its courts.
type FacilityDetailResponse struct {
	FacilityResponse
	Courts []CourtResponse `json:"courts"`
}

func courtToResponse(c domain.Court) CourtResponse {
	return CourtResponse{
		ID:                  c.ID,
		FacilityID:          c.FacilityID,
		Name:                c.Name,
		Sport:               string(c.Sport),
		Indoor:              c.Indoor,
		SlotDurationMinutes: c.SlotDurationMinutes,
		MinBookingMinutes:   c.MinBookingMinutes,
		MaxBookingMinutes:   c.MaxBookingMinutes,
	}
}

func courtsToResponse(courts []domain.Court) []CourtResponse {
	out := make([]CourtResponse, 0, len(courts))
	for _, c := range courts {
		out = append(out, courtToResponse(c))
	}
	return out
}

func facilityToResponse(f domain.Facility) FacilityResponse {
	resp := FacilityResponse{
		ID:                 f.ID,
		Name:               f.Name,
		LocationUnresolved: f.LocationUnresolved,
		AddressLine:        f.AddressLine,
		City:               f.City,
		Country:            f.Country,
		Image:              f.Image,
		DistanceKm:         f.DistanceKm,
		UserID:             f.UserID,
		CreatedAt:          f.CreatedAt,
	}
	if f.HasResolvedLocation() {
		resp.Location = &LocationResponse{Latitude: f.Location.Latitude, Longitude: f.Location.Longitude}
	}
	return resp
}

func facilityToDetailResponse(f domain.Facility) FacilityDetailResponse {
	return FacilityDetailResponse{
		FacilityResponse: facilityToResponse(f),
		Courts:           courtsToResponse(f.Courts),
	}
}

func facilitiesToResponse(facilities []domain.Facility) []FacilityResponse {
	out := make([]FacilityResponse, 0, len(facilities))
	for _, f := range facilities {
		out = append(out, facilityToResponse(f))
	}
	return out
}
