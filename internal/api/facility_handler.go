package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/court-service/internal/api/shared"
	"github.com/phrazzld/court-service/internal/platform/logger"
	"github.com/phrazzld/court-service/internal/service"
)

// FacilityHandler handles facility-related HTTP requests
type FacilityHandler struct {
	facilityService service.FacilityService
	logger          *slog.Logger
}

// NewFacilityHandler creates a new FacilityHandler
func NewFacilityHandler(facilityService service.FacilityService, logger *slog.Logger) *FacilityHandler {
	if facilityService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("facilityService cannot be nil for FacilityHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for FacilityHandler")
	}
	return &FacilityHandler{
		facilityService: facilityService,
		logger:          logger.With(slog.String("component", "facility_handler")),
	}
}

// CreateFacility handles POST /facilities requests.
// When the request is authenticated and the body names no owner, the caller
// becomes the owner.
func (h *FacilityHandler) CreateFacility(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateFacilityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	in := service.CreateFacilityInput{
		Name:        req.Name,
		Location:    req.Location.point(),
		AddressLine: req.AddressLine,
		City:        req.City,
		Country:     req.Country,
		Image:       req.Image,
		UserID:      req.UserID,
	}
	if in.UserID == nil {
		if userID, ok := getUserIDFromContext(r); ok {
			in.UserID = &userID
		}
	}
	for _, c := range req.Courts {
		in.Courts = append(in.Courts, service.CourtInput{
			Name:                c.Name,
			Sport:               c.Sport,
			Indoor:              c.Indoor,
			SlotDurationMinutes: c.SlotDurationMinutes,
			MinBookingMinutes:   c.MinBookingMinutes,
			MaxBookingMinutes:   c.MaxBookingMinutes,
		})
	}

	facility, err := h.facilityService.CreateFacility(r.Context(), in)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create facility")
		return
	}

	log.Debug("facility created", slog.String("facility_id", facility.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, facilityToDetailResponse(*facility))
}

// ListFacilities handles GET /facilities requests.
func (h *FacilityHandler) ListFacilities(w http.ResponseWriter, r *http.Request) {
	facilities, err := h.facilityService.ListFacilities(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list facilities")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, facilitiesToResponse(facilities))
}

// GetFacility handles GET /facilities/{id} requests.
func (h *FacilityHandler) GetFacility(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	facility, err := h.facilityService.GetFacility(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get facility")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, facilityToDetailResponse(*facility))
}

// UpdateFacility handles PATCH /facilities/{id} requests.
func (h *FacilityHandler) UpdateFacility(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateFacilityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	update := service.FacilityUpdate{
		Name:        req.Name,
		AddressLine: req.AddressLine,
		City:        req.City,
		Country:     req.Country,
		Image:       req.Image,
	}
	if req.Location != nil {
		p := req.Location.point()
		update.Location = &p
	}

	facility, err := h.facilityService.UpdateFacility(r.Context(), id, update)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update facility")
		return
	}

	log.Debug("facility updated", slog.String("facility_id", id.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, facilityToResponse(*facility))
}

// ListUserFacilities handles GET /facilities/user/{user_id} requests.
func (h *FacilityHandler) ListUserFacilities(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := handlePathUUID(w, r, "user_id", log)
	if !ok {
		return
	}

	facilities, err := h.facilityService.ListUserFacilities(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list facilities")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, facilitiesToResponse(facilities))
}
