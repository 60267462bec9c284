package network

import (
	"context"

	"github.com/google/uuid"
)

// Lookup is the geo and data collaborator the planner reads the network through.
type Lookup interface {
	// NearbyStations returns stations within maxDistance meters of at, nearest first.
	NearbyStations(ctx context.Context, at Coordinate, maxDistance float64) ([]NearbyStation, error)

	// NearbyGroupedStops returns stops within maxDistance meters of at, grouped by
	// owning route. Each group is ordered nearest first.
	NearbyGroupedStops(ctx context.Context, at Coordinate, maxDistance float64) ([][]NearbyStop, error)

	// StationByID returns the station or a not-found error.
	StationByID(ctx context.Context, id uuid.UUID) (*Station, error)

	// RouteByID returns the route or a not-found error.
	RouteByID(ctx context.Context, id uuid.UUID) (*Route, error)

	// TrunkConnectionsBetween returns at most limit direct trunk connections
	// from startID to finalID.
	TrunkConnectionsBetween(ctx context.Context, startID, finalID uuid.UUID, limit int) ([]TrunkConnection, error)
}
