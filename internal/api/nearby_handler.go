package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/court-service/internal/api/shared"
	"github.com/phrazzld/court-service/internal/config"
	"github.com/phrazzld/court-service/internal/domain"
	"github.com/phrazzld/court-service/internal/platform/logger"
	"github.com/phrazzld/court-service/internal/service"
)

// NearbySearcher is the search capability the handler depends on.
// *service.NearbySearcher implements it.
type NearbySearcher interface {
	Search(ctx context.Context, req service.SearchRequest) (*service.SearchResult, error)
}

// NearbyHandler handles nearby facility searches.
type NearbyHandler struct {
	searcher NearbySearcher
	search   config.SearchConfig
	logger   *slog.Logger
}

// NewNearbyHandler creates a new NearbyHandler
func NewNearbyHandler(searcher NearbySearcher, search config.SearchConfig, logger *slog.Logger) *NearbyHandler {
	if searcher == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("searcher cannot be nil for NearbyHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for NearbyHandler")
	}
	return &NearbyHandler{
		searcher: searcher,
		search:   search,
		logger:   logger.With(slog.String("component", "nearby_handler")),
	}
}

// Nearby handles POST /nearby requests.
func (h *NearbyHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req NearbyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	radius := h.search.DefaultRadiusKm
	if req.RadiusKm != nil {
		radius = *req.RadiusKm
	}
	if radius > h.search.MaxRadiusKm {
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity,
			fmt.Sprintf("Invalid radius_km: must be at most %g", h.search.MaxRadiusKm))
		return
	}

	center := domain.Point{Latitude: *req.Latitude, Longitude: *req.Longitude}
	result, err := h.searcher.Search(r.Context(), service.SearchRequest{Center: center, RadiusKm: radius})
	if err != nil {
		HandleAPIError(w, r, err, "Could not search nearby facilities")
		return
	}

	log.Debug("nearby search served",
		slog.String("source", result.Stage),
		slog.Int("count", len(result.Facilities)),
		slog.Float64("radius_km", radius))

	shared.RespondWithJSON(w, r, http.StatusOK, NearbyResponse{
		Courts:     facilitiesToResponse(result.Facilities),
		TotalCount: len(result.Facilities),
		SearchLocation: SearchLocation{
			Latitude:  center.Latitude,
			Longitude: center.Longitude,
			RadiusKm:  radius,
		},
		Source:        result.Stage,
		RadiusApplied: result.RadiusApplied,
	})
}
