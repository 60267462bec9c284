package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/baq-transit/service-routing/internal/domain/journey"
	"github.com/baq-transit/service-routing/internal/domain/network"
	"github.com/baq-transit/service-routing/internal/events"
)

// PlanRequest is the input of a single-path planning request.
type PlanRequest struct {
	RequestID string
	Start     network.Coordinate
	Final     network.Coordinate
}

// SinglePathResponse is the API response of a single-path planning request.
type SinglePathResponse struct {
	Start network.Coordinate       `json:"start"`
	Final network.Coordinate       `json:"final"`
	Paths [][]journey.StepDocument `json:"paths"`
}

// PlanningService implements the single-path planning use case.
type PlanningService struct {
	assembler  *CandidateAssembler
	enumerator *journey.Enumerator
	publisher  events.Publisher
	metrics    Metrics
	logger     *zap.Logger
}

// NewPlanningService creates a new PlanningService. publisher and m may be nil.
func NewPlanningService(
	assembler *CandidateAssembler,
	enumerator *journey.Enumerator,
	publisher events.Publisher,
	m Metrics,
	logger *zap.Logger,
) *PlanningService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if m == nil {
		m = nopMetrics{}
	}
	return &PlanningService{
		assembler:  assembler,
		enumerator: enumerator,
		publisher:  publisher,
		metrics:    m,
		logger:     logger,
	}
}

// PlanSinglePaths returns every journey alternative between the two points.
// Zero paths is a valid outcome.
func (s *PlanningService) PlanSinglePaths(ctx context.Context, req PlanRequest) (*SinglePathResponse, error) {
	began := time.Now()

	set, err := s.assembler.AssembleCandidates(ctx, req.Start, req.Final)
	if err != nil {
		s.logger.Error("failed to assemble candidates", zap.Error(err))
		return nil, fmt.Errorf("failed to assemble candidates: %w", err)
	}

	alternatives, err := s.enumerator.Enumerate(ctx, req.Start, req.Final, set)
	if err != nil {
		s.logger.Error("failed to enumerate paths", zap.Error(err))
		return nil, fmt.Errorf("failed to enumerate paths: %w", err)
	}

	paths := make([]journey.Path, len(alternatives))
	strategies := make([]string, len(alternatives))
	for i, alt := range alternatives {
		paths[i] = alt.Path
		strategies[i] = string(alt.Strategy)
	}

	docs, err := journey.SerializePaths(paths)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize paths: %w", err)
	}

	s.metrics.PlanInc()
	s.metrics.PlanObserve(time.Since(began))
	for _, strategy := range strategies {
		s.metrics.PathInc(strategy)
	}

	s.logger.Info("paths planned",
		zap.String("request_id", req.RequestID),
		zap.Int("paths", len(docs)),
		zap.Strings("strategies", strategies),
		zap.Duration("took", time.Since(began)),
	)

	s.publishPathsPlanned(ctx, req, strategies)

	return &SinglePathResponse{Start: req.Start, Final: req.Final, Paths: docs}, nil
}

func (s *PlanningService) publishPathsPlanned(ctx context.Context, req PlanRequest, strategies []string) {
	evt := events.PathsPlannedEvent{
		RequestID:  req.RequestID,
		Start:      req.Start,
		Final:      req.Final,
		PathCount:  len(strategies),
		Strategies: strategies,
		PlannedAt:  time.Now().UTC(),
	}
	if err := s.publisher.PublishPathsPlanned(ctx, evt); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("event_type", events.RoutingPathsPlanned),
			zap.Error(err),
		)
	}
}
