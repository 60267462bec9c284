package journey

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/baq-transit/service-routing/internal/domain/network"
	"github.com/baq-transit/service-routing/internal/platform/domain"
)

// Strategy names one way of pairing start and final candidates.
type Strategy string

const (
	StrategyStationToStation Strategy = "station_to_station"
	StrategyStopToStation    Strategy = "stop_to_station"
	StrategyStationToStop    Strategy = "station_to_stop"
	StrategyStopToStop       Strategy = "stop_to_stop"
)

// Strategies lists every strategy in the order their paths are returned.
var Strategies = []Strategy{
	StrategyStationToStation,
	StrategyStopToStation,
	StrategyStationToStop,
	StrategyStopToStop,
}

// Resolver is the part of network.Lookup the enumerator needs.
type Resolver interface {
	StationByID(ctx context.Context, id uuid.UUID) (*network.Station, error)
	RouteByID(ctx context.Context, id uuid.UUID) (*network.Route, error)
	TrunkConnectionsBetween(ctx context.Context, startID, finalID uuid.UUID, limit int) ([]network.TrunkConnection, error)
}

// Alternative is a path together with the strategy that built it.
type Alternative struct {
	Strategy Strategy
	Path     Path
}

// Enumerator builds at most one path per strategy, always from the nearest
// candidate of each class.
type Enumerator struct {
	resolver          Resolver
	trunkAlternatives int
	logger            *zap.Logger
}

// NewEnumerator creates an Enumerator. trunkAlternatives caps how many trunk
// connections are fetched per station pair; values below 1 mean 1.
func NewEnumerator(resolver Resolver, trunkAlternatives int, logger *zap.Logger) *Enumerator {
	if trunkAlternatives < 1 {
		trunkAlternatives = 1
	}
	return &Enumerator{
		resolver:          resolver,
		trunkAlternatives: trunkAlternatives,
		logger:            logger,
	}
}

type planInput struct {
	start, final network.Coordinate
	set          CandidateSet
}

// EnumeratePaths runs every strategy and returns the non-empty paths.
func (e *Enumerator) EnumeratePaths(ctx context.Context, start, final network.Coordinate, set CandidateSet) ([]Path, error) {
	alternatives, err := e.Enumerate(ctx, start, final, set)
	if err != nil {
		return nil, err
	}
	paths := make([]Path, len(alternatives))
	for i, alt := range alternatives {
		paths[i] = alt.Path
	}
	return paths, nil
}

// Enumerate runs every strategy in declaration order and drops empty paths.
func (e *Enumerator) Enumerate(ctx context.Context, start, final network.Coordinate, set CandidateSet) ([]Alternative, error) {
	in := planInput{start: start, final: final, set: set}
	builders := map[Strategy]func(context.Context, planInput) (Path, error){
		StrategyStationToStation: e.stationToStation,
		StrategyStopToStation:    e.stopToStation,
		StrategyStationToStop:    e.stationToStop,
		StrategyStopToStop:       e.stopToStop,
	}

	var alternatives []Alternative
	for _, strategy := range Strategies {
		path, err := builders[strategy](ctx, in)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", strategy, err)
		}
		if path.IsEmpty() {
			e.logger.Debug("strategy produced no path", zap.String("strategy", string(strategy)))
			continue
		}
		e.logger.Debug("strategy produced path",
			zap.String("strategy", string(strategy)),
			zap.Int("steps", len(path)),
		)
		alternatives = append(alternatives, Alternative{Strategy: strategy, Path: path})
	}
	return alternatives, nil
}

func (e *Enumerator) stationToStation(ctx context.Context, in planInput) (Path, error) {
	if len(in.set.StartStations) == 0 || len(in.set.FinalStations) == 0 {
		return nil, nil
	}
	startStation := nearestStation(in.set.StartStations)
	finalStation := nearestStation(in.set.FinalStations)

	// Both ends are served by the same station: nothing to ride.
	if startStation.ID == finalStation.ID {
		return nil, nil
	}

	trunk, err := e.trunkSteps(ctx, startStation, finalStation, Walk{Distance: startStation.Distance})
	if err != nil || trunk == nil {
		return nil, err
	}

	return append(trunk, finalStep(in.final, finalStation.Distance)), nil
}

func (e *Enumerator) stopToStation(ctx context.Context, in planInput) (Path, error) {
	if len(in.set.StartStops) == 0 || len(in.set.FinalStations) == 0 {
		return nil, nil
	}
	startStop := nearestStop(in.set.StartStops)
	finalStation := nearestStation(in.set.FinalStations)

	parent, feeder, err := e.resolveStop(ctx, startStop)
	if err != nil {
		return nil, err
	}

	trunk, err := e.trunkSteps(ctx, parent, finalStation, Alimentador(feeder, startStop.AmountToArrive))
	if err != nil || trunk == nil {
		return nil, err
	}

	path := Path{StopStep{Stop: startStop, Through: Walk{Distance: startStop.Distance}}}
	path = append(path, trunk...)
	return append(path, finalStep(in.final, finalStation.Distance)), nil
}

func (e *Enumerator) stationToStop(ctx context.Context, in planInput) (Path, error) {
	if len(in.set.StartStations) == 0 || len(in.set.FinalStops) == 0 {
		return nil, nil
	}
	startStation := nearestStation(in.set.StartStations)
	finalStop := nearestStop(in.set.FinalStops)

	parent, feeder, err := e.resolveStop(ctx, finalStop)
	if err != nil {
		return nil, err
	}

	trunk, err := e.trunkSteps(ctx, startStation, parent, Walk{Distance: startStation.Distance})
	if err != nil || trunk == nil {
		return nil, err
	}

	path := Path(trunk)
	path = append(path, StopStep{Stop: finalStop, Through: Alimentador(feeder, finalStop.StopSequence)})
	return append(path, finalStep(in.final, finalStop.Distance)), nil
}

func (e *Enumerator) stopToStop(ctx context.Context, in planInput) (Path, error) {
	if len(in.set.StartStops) == 0 || len(in.set.FinalStops) == 0 {
		return nil, nil
	}
	startStop := nearestStop(in.set.StartStops)
	finalStop := nearestStop(in.set.FinalStops)

	startParent, startFeeder, err := e.resolveStop(ctx, startStop)
	if err != nil {
		return nil, err
	}
	finalParent, finalFeeder, err := e.resolveStop(ctx, finalStop)
	if err != nil {
		return nil, err
	}

	trunk, err := e.trunkSteps(ctx, startParent, finalParent, Alimentador(startFeeder, startStop.AmountToArrive))
	if err != nil || trunk == nil {
		return nil, err
	}

	path := Path{StopStep{Stop: startStop, Through: Walk{Distance: startStop.Distance}}}
	path = append(path, trunk...)
	path = append(path, StopStep{Stop: finalStop, Through: Alimentador(finalFeeder, finalStop.StopSequence)})
	return append(path, finalStep(in.final, finalStop.Distance)), nil
}

// trunkSegments returns one step sequence per trunk connection from entry to
// exit, capped at the configured number of alternatives. When entry and exit
// are the same station the segment collapses to a single step carrying
// through, and the collaborator is not called.
func (e *Enumerator) trunkSegments(ctx context.Context, entry, exit network.NearbyStation, through Through) ([][]Step, error) {
	if entry.ID == exit.ID {
		return [][]Step{{StationStep{Station: entry, Through: through}}}, nil
	}

	conns, err := e.resolver.TrunkConnectionsBetween(ctx, entry.ID, exit.ID, e.trunkAlternatives)
	if err != nil {
		return nil, fmt.Errorf("trunk connections %d -> %d: %w", entry.StationID, exit.StationID, err)
	}
	if len(conns) > e.trunkAlternatives {
		conns = conns[:e.trunkAlternatives]
	}

	segments := make([][]Step, 0, len(conns))
	for _, conn := range conns {
		segments = append(segments, []Step{
			StationStep{Station: entry, Through: through},
			StationStep{Station: exit, Through: Troncal(conn.Route, conn.AmountToArrive)},
		})
	}
	return segments, nil
}

// trunkSteps returns the first trunk segment, or nil when the stations are
// not connected.
func (e *Enumerator) trunkSteps(ctx context.Context, entry, exit network.NearbyStation, through Through) ([]Step, error) {
	segments, err := e.trunkSegments(ctx, entry, exit, through)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		e.logger.Warn("no trunk connection between stations",
			zap.Int("from_station", entry.StationID),
			zap.Int("to_station", exit.StationID),
		)
		return nil, nil
	}
	return segments[0], nil
}

// resolveStop fetches the parent station and feeder route of stop. A dangling
// reference is a data integrity fault.
func (e *Enumerator) resolveStop(ctx context.Context, stop network.NearbyStop) (network.NearbyStation, network.Route, error) {
	station, err := e.resolver.StationByID(ctx, stop.ParentStationID)
	if err != nil {
		return network.NearbyStation{}, network.Route{}, referenceError("parent station", stop, err)
	}
	route, err := e.resolver.RouteByID(ctx, stop.RouteID)
	if err != nil {
		return network.NearbyStation{}, network.Route{}, referenceError("route", stop, err)
	}
	return network.NearbyStation{Station: *station}, *route, nil
}

func referenceError(what string, stop network.NearbyStop, err error) error {
	if domain.IsNotFound(err) {
		return domain.NewInternalError(
			fmt.Sprintf("data integrity: stop %s references a missing %s", stop.ID, what), err)
	}
	return fmt.Errorf("resolve %s of stop %s: %w", what, stop.ID, err)
}

func finalStep(final network.Coordinate, distance float64) PlaceStep {
	return PlaceStep{Place: final, Through: Walk{Distance: distance}}
}

// nearestStation returns the minimum-distance station; the first wins ties.
// Callers guarantee a non-empty list.
func nearestStation(stations []network.NearbyStation) network.NearbyStation {
	best := stations[0]
	for _, s := range stations[1:] {
		if s.Distance < best.Distance {
			best = s
		}
	}
	return best
}

// nearestStop returns the minimum-distance stop; the first wins ties.
// Callers guarantee a non-empty list.
func nearestStop(stops []network.NearbyStop) network.NearbyStop {
	best := stops[0]
	for _, s := range stops[1:] {
		if s.Distance < best.Distance {
			best = s
		}
	}
	return best
}
