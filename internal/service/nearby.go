package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/court-service/internal/domain"
	"github.com/phrazzld/court-service/internal/platform/logger"
	"github.com/phrazzld/court-service/internal/redact"
	"github.com/phrazzld/court-service/internal/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Search stage names, reported in SearchResult.Stage and in logs.
const (
	StageSpatialQuery  = "spatial_query"
	StageNamedFunction = "named_function"
	StageFullScan      = "full_scan"
)

const tracerName = "github.com/phrazzld/court-service/internal/service"

// SearchRequest is a nearby search around Center. RadiusKm is validated by
// the caller.
type SearchRequest struct {
	Center   domain.Point
	RadiusKm float64
}

// SearchResult is the output of the first search stage that succeeded.
type SearchResult struct {
	Facilities []domain.Facility

	// Stage names the strategy that produced the result.
	Stage string

	// RadiusApplied is false when the result was not filtered by distance.
	RadiusApplied bool

	// DistanceAnnotated is false when results carry no distance.
	DistanceAnnotated bool
}

// precision describes what a stage guarantees about its output.
type precision struct {
	radiusApplied     bool
	distanceAnnotated bool
}

type searchStage struct {
	name      string
	precision precision
	run       func(ctx context.Context, center domain.Point, radiusMeters float64) ([]store.FacilityRecord, error)
}

// NearbySearcher finds facilities around a point, falling back to less
// precise strategies when the store cannot serve a more precise one.
// It holds no per-request state and is safe for concurrent use.
type NearbySearcher struct {
	stages []searchStage
	logger *slog.Logger
	tracer trace.Tracer
}

// NearbyOption configures a NearbySearcher.
type NearbyOption func(*NearbySearcher)

// WithTracer sets the tracer used for search spans. The global provider's
// tracer is used otherwise.
func WithTracer(t trace.Tracer) NearbyOption {
	return func(s *NearbySearcher) { s.tracer = t }
}

// NewNearbySearcher creates a NearbySearcher over facilities.
// It returns an error if facilities is nil.
func NewNearbySearcher(facilities store.FacilityStore, log *slog.Logger, opts ...NearbyOption) (*NearbySearcher, error) {
	if facilities == nil {
		return nil, &ServiceError{Service: "nearby", Operation: "create_service", Err: errors.New("facility store cannot be nil")}
	}
	if log == nil {
		log = slog.Default()
	}

	s := &NearbySearcher{
		stages: []searchStage{
			{
				name:      StageSpatialQuery,
				precision: precision{radiusApplied: true, distanceAnnotated: true},
				run:       facilities.QueryNearby,
			},
			{
				name:      StageNamedFunction,
				precision: precision{radiusApplied: true, distanceAnnotated: true},
				run:       facilities.CallNearbyFunction,
			},
			{
				name: StageFullScan,
				run: func(ctx context.Context, _ domain.Point, _ float64) ([]store.FacilityRecord, error) {
					return facilities.ListAll(ctx)
				},
			},
		},
		logger: log.With(slog.String("component", "nearby_searcher")),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Search runs the stages in order and returns the first success. Results are
// kept in the order the store produced them.
//
// It returns ErrCancelled when ctx ends before a stage succeeds, and
// ErrUpstreamUnavailable, without the stage causes, when every stage failed.
func (s *NearbySearcher) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	ctx, span := s.tracer.Start(ctx, "nearby.search", trace.WithAttributes(
		attribute.Float64("search.latitude", req.Center.Latitude),
		attribute.Float64("search.longitude", req.Center.Longitude),
		attribute.Float64("search.radius_km", req.RadiusKm),
	))
	defer span.End()

	log := logger.FromContextOrDefault(ctx, s.logger)
	radiusMeters := req.RadiusKm * 1000

	failed := 0
	for _, stage := range s.stages {
		if err := ctx.Err(); err != nil {
			return nil, s.cancelled(span, log, stage.name, err)
		}

		records, err := s.runStage(ctx, stage, req.Center, radiusMeters)
		if err == nil {
			result := &SearchResult{
				Facilities:        facilitiesFromRecords(log, records),
				Stage:             stage.name,
				RadiusApplied:     stage.precision.radiusApplied,
				DistanceAnnotated: stage.precision.distanceAnnotated,
			}
			span.SetAttributes(
				attribute.String("search.stage", stage.name),
				attribute.Int("search.result_count", len(result.Facilities)),
			)
			log.Debug("nearby search completed",
				slog.String("stage", stage.name),
				slog.Int("count", len(result.Facilities)),
				slog.Bool("radius_applied", result.RadiusApplied))
			return result, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, s.cancelled(span, log, stage.name, ctxErr)
		}

		failed++
		upErr := &UpstreamError{Stage: stage.name, Err: err}
		log.Error("nearby search stage failed",
			slog.String("stage", stage.name),
			slog.String("error", redact.Error(upErr)))
	}

	span.SetStatus(codes.Error, "all search stages failed")
	log.Error("nearby search unavailable", slog.Int("stages_attempted", failed))
	// Stage causes are logged above, never wrapped.
	return nil, fmt.Errorf("%w after %d stages", ErrUpstreamUnavailable, failed)
}

func (s *NearbySearcher) runStage(
	ctx context.Context,
	stage searchStage,
	center domain.Point,
	radiusMeters float64,
) ([]store.FacilityRecord, error) {
	ctx, span := s.tracer.Start(ctx, "nearby.stage."+stage.name,
		trace.WithAttributes(attribute.String("search.stage", stage.name)))
	defer span.End()

	records, err := stage.run(ctx, center, radiusMeters)
	if err != nil {
		span.RecordError(errors.New(redact.Error(err)))
		span.SetStatus(codes.Error, "stage failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("search.result_count", len(records)))
	return records, nil
}

func (s *NearbySearcher) cancelled(span trace.Span, log *slog.Logger, stage string, cause error) error {
	span.SetStatus(codes.Error, "cancelled")
	log.Warn("nearby search cancelled",
		slog.String("stage", stage),
		slog.String("error", cause.Error()))
	return fmt.Errorf("%w: %w", ErrCancelled, cause)
}
