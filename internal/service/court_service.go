package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/court-service/internal/domain"
	"github.com/phrazzld/court-service/internal/platform/logger"
	"github.com/phrazzld/court-service/internal/store"
)

// CourtInput carries the data for a new court. Sport is normalized to
// upper case; values outside the known set are kept as given.
type CourtInput struct {
	Name                string
	Sport               string
	Indoor              bool
	SlotDurationMinutes int
	MinBookingMinutes   int
	MaxBookingMinutes   int
}

func (in CourtInput) build(facilityID uuid.UUID) (*domain.Court, error) {
	return domain.NewCourt(
		facilityID,
		in.Name,
		domain.NormalizeSport(in.Sport),
		in.Indoor,
		in.SlotDurationMinutes,
		in.MinBookingMinutes,
		in.MaxBookingMinutes,
	)
}

// CourtService provides court management operations
type CourtService interface {
	// AddCourt creates a court on an existing facility.
	// Returns ErrFacilityNotFound if the facility does not exist.
	AddCourt(ctx context.Context, facilityID uuid.UUID, in CourtInput) (*domain.Court, error)

	// ListCourts returns the courts of a facility.
	// Returns ErrFacilityNotFound if the facility does not exist.
	ListCourts(ctx context.Context, facilityID uuid.UUID) ([]domain.Court, error)
}

type courtServiceImpl struct {
	facilities store.FacilityStore
	courts     store.CourtStore
	logger     *slog.Logger
}

// NewCourtService creates a CourtService.
// It returns an error if any of the required dependencies are nil.
func NewCourtService(facilities store.FacilityStore, courts store.CourtStore, log *slog.Logger) (CourtService, error) {
	if facilities == nil {
		return nil, &ServiceError{Service: "court", Operation: "create_service", Err: errors.New("facility store cannot be nil")}
	}
	if courts == nil {
		return nil, &ServiceError{Service: "court", Operation: "create_service", Err: errors.New("court store cannot be nil")}
	}
	if log == nil {
		log = slog.Default()
	}
	return &courtServiceImpl{
		facilities: facilities,
		courts:     courts,
		logger:     log.With(slog.String("component", "court_service")),
	}, nil
}

func (s *courtServiceImpl) AddCourt(ctx context.Context, facilityID uuid.UUID, in CourtInput) (*domain.Court, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	court, err := in.build(facilityID)
	if err != nil {
		return nil, err
	}

	if err := s.courts.Create(ctx, court); err != nil {
		log.Error("failed to add court",
			slog.String("facility_id", facilityID.String()),
			slog.String("error", err.Error()))
		return nil, wrapError("court", "add", err)
	}

	log.Info("court added",
		slog.String("court_id", court.ID.String()),
		slog.String("facility_id", facilityID.String()))
	return court, nil
}

func (s *courtServiceImpl) ListCourts(ctx context.Context, facilityID uuid.UUID) ([]domain.Court, error) {
	if _, err := s.facilities.GetByID(ctx, facilityID); err != nil {
		return nil, wrapError("court", "list", err)
	}

	courts, err := s.courts.ListByFacility(ctx, facilityID)
	if err != nil {
		return nil, wrapError("court", "list", err)
	}
	return courts, nil
}
