package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/baq-transit/service-routing/internal/domain/journey"
	"github.com/baq-transit/service-routing/internal/domain/network"
)

// ProximityLookup is the part of network.Lookup the assembler needs.
type ProximityLookup interface {
	NearbyStations(ctx context.Context, at network.Coordinate, maxDistance float64) ([]network.NearbyStation, error)
	NearbyGroupedStops(ctx context.Context, at network.Coordinate, maxDistance float64) ([][]network.NearbyStop, error)
}

// CandidateAssembler gathers the boarding candidates near both ends of a journey.
type CandidateAssembler struct {
	lookup  ProximityLookup
	radius  float64
	metrics Metrics
	logger  *zap.Logger
}

// NewCandidateAssembler creates a CandidateAssembler searching within radius
// meters of each endpoint. m may be nil.
func NewCandidateAssembler(lookup ProximityLookup, radius float64, m Metrics, logger *zap.Logger) *CandidateAssembler {
	if m == nil {
		m = nopMetrics{}
	}
	return &CandidateAssembler{lookup: lookup, radius: radius, metrics: m, logger: logger}
}

// AssembleCandidates issues the four proximity lookups concurrently, filters
// every stop group and returns the flattened candidate set.
func (a *CandidateAssembler) AssembleCandidates(ctx context.Context, start, final network.Coordinate) (journey.CandidateSet, error) {
	var (
		startStations, finalStations []network.NearbyStation
		startGroups, finalGroups     [][]network.NearbyStop
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		startStations, err = a.lookup.NearbyStations(gctx, start, a.radius)
		return a.lookupErr("nearby_stations", "start", err)
	})
	g.Go(func() (err error) {
		startGroups, err = a.lookup.NearbyGroupedStops(gctx, start, a.radius)
		return a.lookupErr("nearby_grouped_stops", "start", err)
	})
	g.Go(func() (err error) {
		finalStations, err = a.lookup.NearbyStations(gctx, final, a.radius)
		return a.lookupErr("nearby_stations", "final", err)
	})
	g.Go(func() (err error) {
		finalGroups, err = a.lookup.NearbyGroupedStops(gctx, final, a.radius)
		return a.lookupErr("nearby_grouped_stops", "final", err)
	})
	if err := g.Wait(); err != nil {
		return journey.CandidateSet{}, err
	}

	set := journey.NewCandidateSet(startStations, startGroups, finalStations, finalGroups)

	a.metrics.CandidatesObserve("start_station", len(set.StartStations))
	a.metrics.CandidatesObserve("start_stop", len(set.StartStops))
	a.metrics.CandidatesObserve("final_station", len(set.FinalStations))
	a.metrics.CandidatesObserve("final_stop", len(set.FinalStops))
	a.logger.Info("candidates assembled",
		zap.Int("start_stations", len(set.StartStations)),
		zap.Int("start_stops", len(set.StartStops)),
		zap.Int("start_stop_groups", len(startGroups)),
		zap.Int("final_stations", len(set.FinalStations)),
		zap.Int("final_stops", len(set.FinalStops)),
		zap.Int("final_stop_groups", len(finalGroups)),
	)
	return set, nil
}

func (a *CandidateAssembler) lookupErr(operation, endpoint string, err error) error {
	if err == nil {
		return nil
	}
	a.metrics.LookupErrInc(operation)
	return fmt.Errorf("%s near %s point: %w", operation, endpoint, err)
}
