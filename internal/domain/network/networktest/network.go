// Package networktest provides an in-memory network.Lookup for tests.
package networktest

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/baq-transit/service-routing/internal/domain/network"
	"github.com/baq-transit/service-routing/internal/platform/domain"
)

type stationPair struct {
	from, to uuid.UUID
}

// Network is an in-memory network.Lookup. Proximity uses great-circle distance.
type Network struct {
	mu sync.Mutex

	stations []network.Station
	stops    []network.Stop
	routes   map[uuid.UUID]network.Route
	trunks   map[stationPair][]network.TrunkConnection

	stationCalls int
	routeCalls   int
	trunkCalls   int
}

// New creates an empty Network.
func New() *Network {
	return &Network{
		routes: make(map[uuid.UUID]network.Route),
		trunks: make(map[stationPair][]network.TrunkConnection),
	}
}

// AddRoute registers a route.
func (n *Network) AddRoute(transmetroID int, name string, kind network.RouteKind) network.Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	r := network.Route{ID: uuid.New(), TransmetroID: transmetroID, Name: name, Kind: kind}
	n.routes[r.ID] = r
	return r
}

// AddStation registers a station at lat/lon.
func (n *Network) AddStation(stationID int, name string, lat, lon float64) network.Station {
	n.mu.Lock()
	defer n.mu.Unlock()
	s := network.Station{
		ID:        uuid.New(),
		StationID: stationID,
		Name:      name,
		Location:  network.Coordinate{Lat: lat, Lon: lon}.GeoJSON(),
	}
	n.stations = append(n.stations, s)
	return s
}

// AddStop registers a feeder stop of route whose parent is parent.
func (n *Network) AddStop(description string, route network.Route, parent network.Station, stopSequence, amountToArrive int, lat, lon float64) network.Stop {
	n.mu.Lock()
	defer n.mu.Unlock()
	s := network.Stop{
		ID:              uuid.New(),
		Description:     description,
		StopSequence:    stopSequence,
		AmountToArrive:  amountToArrive,
		RouteID:         route.ID,
		ParentStationID: parent.ID,
		Location:        network.Coordinate{Lat: lat, Lon: lon}.GeoJSON(),
	}
	n.stops = append(n.stops, s)
	return s
}

// AddDanglingStop registers a stop whose parent station and route do not exist.
func (n *Network) AddDanglingStop(description string, stopSequence, amountToArrive int, lat, lon float64) network.Stop {
	return n.AddStop(description, network.Route{ID: uuid.New()}, network.Station{ID: uuid.New()},
		stopSequence, amountToArrive, lat, lon)
}

// Connect records that route reaches to from from after amountToArrive hops.
func (n *Network) Connect(from, to network.Station, route network.Route, amountToArrive int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	key := stationPair{from: from.ID, to: to.ID}
	n.trunks[key] = append(n.trunks[key], network.TrunkConnection{Route: route, AmountToArrive: amountToArrive})
}

// NearbyStations implements network.Lookup.
func (n *Network) NearbyStations(_ context.Context, at network.Coordinate, maxDistance float64) ([]network.NearbyStation, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	var out []network.NearbyStation
	for _, s := range n.stations {
		if d := network.Distance(at, s.Location.Coordinate()); d <= maxDistance {
			out = append(out, network.NearbyStation{Station: s, Distance: d})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out, nil
}

// NearbyGroupedStops implements network.Lookup.
func (n *Network) NearbyGroupedStops(_ context.Context, at network.Coordinate, maxDistance float64) ([][]network.NearbyStop, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	var nearby []network.NearbyStop
	for _, s := range n.stops {
		if d := network.Distance(at, s.Location.Coordinate()); d <= maxDistance {
			nearby = append(nearby, network.NearbyStop{Stop: s, Distance: d})
		}
	}
	sort.SliceStable(nearby, func(i, j int) bool { return nearby[i].Distance < nearby[j].Distance })

	index := make(map[uuid.UUID]int)
	var groups [][]network.NearbyStop
	for _, s := range nearby {
		i, ok := index[s.RouteID]
		if !ok {
			i = len(groups)
			index[s.RouteID] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], s)
	}
	return groups, nil
}

// StationByID implements network.Lookup.
func (n *Network) StationByID(_ context.Context, id uuid.UUID) (*network.Station, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stationCalls++
	for _, s := range n.stations {
		if s.ID == id {
			station := s
			return &station, nil
		}
	}
	return nil, domain.NewNotFoundError("Station", id.String())
}

// RouteByID implements network.Lookup.
func (n *Network) RouteByID(_ context.Context, id uuid.UUID) (*network.Route, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routeCalls++
	r, ok := n.routes[id]
	if !ok {
		return nil, domain.NewNotFoundError("Route", id.String())
	}
	return &r, nil
}

// TrunkConnectionsBetween implements network.Lookup.
func (n *Network) TrunkConnectionsBetween(_ context.Context, startID, finalID uuid.UUID, limit int) ([]network.TrunkConnection, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.trunkCalls++
	conns := n.trunks[stationPair{from: startID, to: finalID}]
	if limit > 0 && len(conns) > limit {
		conns = conns[:limit]
	}
	out := make([]network.TrunkConnection, len(conns))
	copy(out, conns)
	return out, nil
}

// StationCalls returns how many times StationByID was called.
func (n *Network) StationCalls() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stationCalls
}

// RouteCalls returns how many times RouteByID was called.
func (n *Network) RouteCalls() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.routeCalls
}

// TrunkCalls returns how many times TrunkConnectionsBetween was called.
func (n *Network) TrunkCalls() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.trunkCalls
}
