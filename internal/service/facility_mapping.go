package service

import (
	"errors"
	"log/slog"

	"github.com/phrazzld/court-service/internal/domain"
	"github.com/phrazzld/court-service/internal/geo"
	"github.com/phrazzld/court-service/internal/store"
)

func isValidation(err error) bool {
	return errors.Is(err, domain.ErrValidation)
}

// facilityFromRecord converts a store record into a domain Facility. When
// the stored location cannot be decoded the facility is still returned, with
// the zero Point and LocationUnresolved set, together with the decode error.
func facilityFromRecord(rec store.FacilityRecord) (domain.Facility, error) {
	f := domain.Facility{
		ID:          rec.ID,
		Name:        rec.Name,
		AddressLine: rec.AddressLine,
		City:        rec.City,
		Country:     rec.Country,
		Image:       rec.Image,
		UserID:      rec.UserID,
		CreatedAt:   rec.CreatedAt,
		DistanceKm:  rec.DistanceKm,
	}
	if rec.Location == nil {
		return f, nil
	}

	p, resolved, err := geo.ResolveLocation(rec.Location)
	f.Location = &p
	f.LocationUnresolved = !resolved
	return f, err
}

// facilitiesFromRecords converts records in order, logging every location
// that could not be decoded.
func facilitiesFromRecords(log *slog.Logger, records []store.FacilityRecord) []domain.Facility {
	facilities := make([]domain.Facility, 0, len(records))
	for _, rec := range records {
		f, err := facilityFromRecord(rec)
		if err != nil {
			log.Warn("stored location could not be decoded",
				slog.String("facility_id", rec.ID.String()),
				slog.String("error", err.Error()))
		}
		facilities = append(facilities, f)
	}
	return facilities
}
