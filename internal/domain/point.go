package domain

import "math"

// Coordinate bounds for WGS84 points.
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// Point is a WGS84 location expressed as a flat latitude/longitude pair.
// It is a value type and is always passed by value.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewPoint returns a validated Point.
func NewPoint(latitude, longitude float64) (Point, error) {
	p := Point{Latitude: latitude, Longitude: longitude}
	if err := p.Validate(); err != nil {
		return Point{}, err
	}
	return p, nil
}

// Validate reports whether both coordinates are within range.
func (p Point) Validate() error {
	if math.IsNaN(p.Latitude) || p.Latitude < MinLatitude || p.Latitude > MaxLatitude {
		return NewValidationError("latitude", "must be between -90 and 90", ErrInvalidCoordinates)
	}
	if math.IsNaN(p.Longitude) || p.Longitude < MinLongitude || p.Longitude > MaxLongitude {
		return NewValidationError("longitude", "must be between -180 and 180", ErrInvalidCoordinates)
	}
	return nil
}
