package main

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/phrazzld/court-service/internal/api"
	apiMiddleware "github.com/phrazzld/court-service/internal/api/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const corsMaxAgeSeconds = 300

// setupRouter creates the router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(app.config.Server.RequestTimeout()))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.config.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{apiMiddleware.TraceIDHeader},
		AllowCredentials: true,
		MaxAge:           corsMaxAgeSeconds,
	}))
	r.Use(apiMiddleware.TraceMiddleware(app.logger))

	healthHandler := api.NewHealthHandler(version, app.db)
	nearbyHandler := api.NewNearbyHandler(app.nearbySearcher, app.config.Search, app.logger)
	facilityHandler := api.NewFacilityHandler(app.facilityService, app.logger)
	courtHandler := api.NewCourtHandler(app.courtService, app.logger)

	// Write routes are guarded only when a JWT secret is configured.
	guard := func(next http.Handler) http.Handler { return next }
	if app.jwtService != nil {
		guard = apiMiddleware.NewAuthMiddleware(app.jwtService).Authenticate
	}

	r.Get("/", healthHandler.Root)
	r.Get("/health", healthHandler.Health)

	r.Route(fmt.Sprintf("/api/%s/facilities", app.config.Server.APIVersion), func(r chi.Router) {
		r.Get("/health", healthHandler.Health)
		r.Post("/nearby", nearbyHandler.Nearby)

		r.Route("/facilities", func(r chi.Router) {
			r.Get("/", facilityHandler.ListFacilities)
			r.Get("/user/{user_id}", facilityHandler.ListUserFacilities)
			r.Get("/{id}", facilityHandler.GetFacility)
			r.Get("/{id}/courts", courtHandler.ListCourts)

			r.Group(func(r chi.Router) {
				r.Use(guard)
				r.Post("/", facilityHandler.CreateFacility)
				r.Patch("/{id}", facilityHandler.UpdateFacility)
				r.Post("/{id}/courts", courtHandler.AddCourt)
			})
		})
	})

	return otelhttp.NewHandler(r, "court-service",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}
