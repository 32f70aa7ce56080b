package geo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/phrazzld/court-service/internal/domain"
)

// Decode failure reasons.
const (
	ReasonUnsupportedEncoding = "unsupported encoding"
	ReasonMalformedGeometry   = "malformed geometry"
	ReasonOutOfRange          = "coordinates out of range"
)

// DecodeFailure is returned when a stored location cannot be turned into a
// Point. It is recoverable: callers degrade the single record, not the
// whole response.
type DecodeFailure struct {
	Reason string
	Detail string
}

// Error implements the error interface.
func (e *DecodeFailure) Error() string {
	if e.Detail == "" {
		return "decode location: " + e.Reason
	}
	return fmt.Sprintf("decode location: %s: %s", e.Reason, e.Detail)
}

// RawLocation is a location payload as returned by the store. It is a closed
// set: GeoJSONPoint, LatLonFields or Opaque.
type RawLocation interface {
	rawLocation()
}

// GeoJSONPoint is a GeoJSON point geometry. Coordinates are ordered
// [longitude, latitude].
type GeoJSONPoint struct {
	Type        string    `json:"type,omitempty"`
	Coordinates []float64 `json:"coordinates"`
}

// LatLonFields is a location already split into separate numeric columns.
type LatLonFields struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Opaque is any payload the codec cannot interpret without the store's help,
// such as hex-encoded EWKB.
type Opaque struct {
	Data []byte
}

func (GeoJSONPoint) rawLocation() {}
func (LatLonFields) rawLocation() {}
func (Opaque) rawLocation()       {}

// EncodePoint renders p as a WKT point, longitude first.
func EncodePoint(p domain.Point) string {
	return "POINT(" + formatCoord(p.Longitude) + " " + formatCoord(p.Latitude) + ")"
}

// NewGeoJSONPoint returns the GeoJSON encoding of p.
func NewGeoJSONPoint(p domain.Point) GeoJSONPoint {
	return GeoJSONPoint{Type: "Point", Coordinates: []float64{p.Longitude, p.Latitude}}
}

// DecodePoint converts a raw store payload into a Point.
// Opaque payloads always yield a *DecodeFailure.
func DecodePoint(raw RawLocation) (domain.Point, error) {
	var p domain.Point
	switch loc := raw.(type) {
	case GeoJSONPoint:
		if loc.Type != "" && !strings.EqualFold(loc.Type, "Point") {
			return domain.Point{}, &DecodeFailure{Reason: ReasonMalformedGeometry, Detail: "geometry type " + loc.Type}
		}
		if len(loc.Coordinates) < 2 {
			return domain.Point{}, &DecodeFailure{
				Reason: ReasonMalformedGeometry,
				Detail: fmt.Sprintf("%d coordinates", len(loc.Coordinates)),
			}
		}
		p = domain.Point{Latitude: loc.Coordinates[1], Longitude: loc.Coordinates[0]}
	case LatLonFields:
		p = domain.Point{Latitude: loc.Latitude, Longitude: loc.Longitude}
	case Opaque:
		return domain.Point{}, &DecodeFailure{Reason: ReasonUnsupportedEncoding}
	default:
		return domain.Point{}, &DecodeFailure{Reason: ReasonUnsupportedEncoding, Detail: fmt.Sprintf("%T", raw)}
	}

	if err := p.Validate(); err != nil {
		return domain.Point{}, &DecodeFailure{Reason: ReasonOutOfRange, Detail: err.Error()}
	}
	return p, nil
}

// ResolveLocation decodes raw for callers that must keep the record even when
// decoding fails. On failure it returns the explicit zero Point and
// resolved=false together with the DecodeFailure.
func ResolveLocation(raw RawLocation) (p domain.Point, resolved bool, err error) {
	p, err = DecodePoint(raw)
	if err != nil {
		return domain.Point{}, false, err
	}
	return p, true, nil
}

// ParseRawLocation classifies a payload read from the store.
func ParseRawLocation(data []byte) RawLocation {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Opaque{Data: data}
	}

	var probe struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
		Latitude    *float64        `json:"latitude"`
		Longitude   *float64        `json:"longitude"`
	}
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return Opaque{Data: data}
	}

	if len(probe.Coordinates) > 0 {
		var coords []float64
		if err := json.Unmarshal(probe.Coordinates, &coords); err != nil {
			return Opaque{Data: data}
		}
		return GeoJSONPoint{Type: probe.Type, Coordinates: coords}
	}
	if probe.Latitude != nil && probe.Longitude != nil {
		return LatLonFields{Latitude: *probe.Latitude, Longitude: *probe.Longitude}
	}
	return Opaque{Data: data}
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
