// Package geo translates between the flat latitude/longitude pairs used by the
// API and the point representations understood by the PostGIS store.
//
// Writes always use WKT ("POINT(lon lat)"). Reads accept a GeoJSON point, a
// pair of separated latitude/longitude fields, or an opaque payload; the
// latter is never guessed at and decodes to a *DecodeFailure.
package geo
