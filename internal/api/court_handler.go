package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/court-service/internal/api/shared"
	"github.com/phrazzld/court-service/internal/platform/logger"
	"github.com/phrazzld/court-service/internal/service"
)

// CourtHandler handles court-related HTTP requests
type CourtHandler struct {
	courtService service.CourtService
	logger       *slog.Logger
}

// NewCourtHandler creates a new CourtHandler
func NewCourtHandler(courtService service.CourtService, logger *slog.Logger) *CourtHandler {
	if courtService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("courtService cannot be nil for CourtHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CourtHandler")
	}
	return &CourtHandler{
		courtService: courtService,
		logger:       logger.With(slog.String("component", "court_handler")),
	}
}

// ListCourts handles GET /facilities/{id}/courts requests.
func (h *CourtHandler) ListCourts(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	facilityID, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	courts, err := h.courtService.ListCourts(r.Context(), facilityID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list courts")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, courtsToResponse(courts))
}

// AddCourt handles POST /facilities/{id}/courts requests.
func (h *CourtHandler) AddCourt(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	facilityID, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req CourtRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	court, err := h.courtService.AddCourt(r.Context(), facilityID, service.CourtInput{
		Name:                req.Name,
		Sport:               req.Sport,
		Indoor:              req.Indoor,
		SlotDurationMinutes: req.SlotDurationMinutes,
		MinBookingMinutes:   req.MinBookingMinutes,
		MaxBookingMinutes:   req.MaxBookingMinutes,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add court")
		return
	}

	log.Debug("court added",
		slog.String("facility_id", facilityID.String()),
		slog.String("court_id", court.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, courtToResponse(*court))
}
