package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/court-service/internal/domain"
	"github.com/phrazzld/court-service/internal/platform/logger"
	"github.com/phrazzld/court-service/internal/store"
)

// CreateFacilityInput carries the data for a new facility. Courts, when
// given, are created in the same transaction.
type CreateFacilityInput struct {
	Name        *string
	Location    domain.Point
	AddressLine *string
	City        *string
	Country     *string
	Image       *string
	UserID      *uuid.UUID
	Courts      []CourtInput
}

// FacilityUpdate lists the fields to change on a facility. Nil fields are kept.
type FacilityUpdate = store.FacilityPatch

// FacilityService provides facility management operations
type FacilityService interface {
	// CreateFacility stores a new facility and its initial courts atomically.
	CreateFacility(ctx context.Context, in CreateFacilityInput) (*domain.Facility, error)

	// GetFacility returns a facility together with its courts.
	// Returns ErrFacilityNotFound if it does not exist.
	GetFacility(ctx context.Context, id uuid.UUID) (*domain.Facility, error)

	// ListFacilities returns every facility.
	ListFacilities(ctx context.Context) ([]domain.Facility, error)

	// ListUserFacilities returns the facilities owned by userID.
	ListUserFacilities(ctx context.Context, userID uuid.UUID) ([]domain.Facility, error)

	// UpdateFacility applies update and returns the stored facility.
	// Returns ErrFacilityNotFound if it does not exist.
	UpdateFacility(ctx context.Context, id uuid.UUID, update FacilityUpdate) (*domain.Facility, error)
}

type facilityServiceImpl struct {
	db         *sql.DB
	facilities store.FacilityStore
	courts     store.CourtStore
	logger     *slog.Logger
}

// NewFacilityService creates a FacilityService.
// It returns an error if any of the required dependencies are nil.
func NewFacilityService(
	db *sql.DB,
	facilities store.FacilityStore,
	courts store.CourtStore,
	log *slog.Logger,
) (FacilityService, error) {
	if db == nil {
		return nil, &ServiceError{Service: "facility", Operation: "create_service", Err: errors.New("db cannot be nil")}
	}
	if facilities == nil {
		return nil, &ServiceError{Service: "facility", Operation: "create_service", Err: errors.New("facility store cannot be nil")}
	}
	if courts == nil {
		return nil, &ServiceError{Service: "facility", Operation: "create_service", Err: errors.New("court store cannot be nil")}
	}
	if log == nil {
		log = slog.Default()
	}

	return &facilityServiceImpl{
		db:         db,
		facilities: facilities,
		courts:     courts,
		logger:     log.With(slog.String("component", "facility_service")),
	}, nil
}

func (s *facilityServiceImpl) CreateFacility(ctx context.Context, in CreateFacilityInput) (*domain.Facility, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	facility, err := domain.NewFacility(in.Location)
	if err != nil {
		return nil, err
	}
	facility.Name = in.Name
	facility.AddressLine = in.AddressLine
	facility.City = in.City
	facility.Country = in.Country
	facility.Image = in.Image
	facility.UserID = in.UserID

	courts := make([]*domain.Court, 0, len(in.Courts))
	for _, ci := range in.Courts {
		court, err := ci.build(facility.ID)
		if err != nil {
			return nil, err
		}
		courts = append(courts, court)
	}

	var rec *store.FacilityRecord
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		rec, err = s.facilities.WithTx(tx).Create(ctx, facility)
		if err != nil {
			return err
		}
		txCourts := s.courts.WithTx(tx)
		for _, court := range courts {
			if err := txCourts.Create(ctx, court); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to create facility",
			slog.String("facility_id", facility.ID.String()),
			slog.Int("courts", len(courts)),
			slog.String("error", err.Error()))
		return nil, wrapError("facility", "create", err)
	}

	created, err := facilityFromRecord(*rec)
	if err != nil {
		log.Warn("stored location could not be decoded",
			slog.String("facility_id", rec.ID.String()),
			slog.String("error", err.Error()))
	}
	created.Courts = make([]domain.Court, 0, len(courts))
	for _, c := range courts {
		created.Courts = append(created.Courts, *c)
	}

	log.Info("facility created",
		slog.String("facility_id", created.ID.String()),
		slog.Int("courts", len(created.Courts)))
	return &created, nil
}

func (s *facilityServiceImpl) GetFacility(ctx context.Context, id uuid.UUID) (*domain.Facility, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rec, err := s.facilities.GetByID(ctx, id)
	if err != nil {
		return nil, wrapError("facility", "get", err)
	}

	facility, err := facilityFromRecord(*rec)
	if err != nil {
		log.Warn("stored location could not be decoded",
			slog.String("facility_id", id.String()),
			slog.String("error", err.Error()))
	}

	courts, err := s.courts.ListByFacility(ctx, id)
	if err != nil {
		return nil, wrapError("facility", "get", err)
	}
	facility.Courts = courts

	return &facility, nil
}

func (s *facilityServiceImpl) ListFacilities(ctx context.Context) ([]domain.Facility, error) {
	records, err := s.facilities.ListAll(ctx)
	if err != nil {
		return nil, wrapError("facility", "list", err)
	}
	return facilitiesFromRecords(logger.FromContextOrDefault(ctx, s.logger), records), nil
}

func (s *facilityServiceImpl) ListUserFacilities(ctx context.Context, userID uuid.UUID) ([]domain.Facility, error) {
	records, err := s.facilities.ListByUser(ctx, userID)
	if err != nil {
		return nil, wrapError("facility", "list_by_user", err)
	}
	return facilitiesFromRecords(logger.FromContextOrDefault(ctx, s.logger), records), nil
}

func (s *facilityServiceImpl) UpdateFacility(
	ctx context.Context,
	id uuid.UUID,
	update FacilityUpdate,
) (*domain.Facility, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if update.Location != nil {
		if err := update.Location.Validate(); err != nil {
			return nil, err
		}
	}

	rec, err := s.facilities.Update(ctx, id, update)
	if err != nil {
		return nil, wrapError("facility", "update", err)
	}

	facility, err := facilityFromRecord(*rec)
	if err != nil {
		log.Warn("stored location could not be decoded",
			slog.String("facility_id", id.String()),
			slog.String("error", err.Error()))
	}
	log.Info("facility updated", slog.String("facility_id", id.String()))
	return &facility, nil
}
