package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/court-service/internal/domain"
)

// CourtStore defines the interface for court data persistence.
type CourtStore interface {
	// Create saves a new court.
	// Returns ErrFacilityNotFound if the referenced facility does not exist.
	Create(ctx context.Context, court *domain.Court) error

	// ListByFacility returns the courts of a facility ordered by name.
	// Returns an empty slice if the facility has no courts.
	ListByFacility(ctx context.Context, facilityID uuid.UUID) ([]domain.Court, error)

	// WithTx returns a new CourtStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) CourtStore
}
