package network

import "github.com/google/uuid"

// RouteKind distinguishes trunk routes from feeder routes.
type RouteKind string

const (
	RouteKindTroncal        RouteKind = "troncal"
	RouteKindTroncalExpress RouteKind = "troncal-express"
	RouteKindAlimentador    RouteKind = "alimentador"
)

// IsValid returns true if the kind is recognized.
func (k RouteKind) IsValid() bool {
	switch k {
	case RouteKindTroncal, RouteKindTroncalExpress, RouteKindAlimentador:
		return true
	}
	return false
}

// Route is a named transit route.
type Route struct {
	ID           uuid.UUID `json:"id"`
	TransmetroID int       `json:"transmetro_id"`
	Name         string    `json:"name"`
	Kind         RouteKind `json:"type_of_route"`
	Description  string    `json:"description,omitempty"`
}

// Station is a trunk-route boarding point.
type Station struct {
	ID        uuid.UUID `json:"id"`
	StationID int       `json:"station_id"`
	Name      string    `json:"name"`
	Location  GeoPoint  `json:"location"`
}

// Stop is a feeder-route boarding point. It belongs to exactly one parent
// station and one feeder route.
type Stop struct {
	ID              uuid.UUID `json:"id"`
	Description     string    `json:"description"`
	StopSequence    int       `json:"stop_sequence"`
	AmountToArrive  int       `json:"amount_to_arrive"`
	RouteID         uuid.UUID `json:"route"`
	ParentStationID uuid.UUID `json:"parent_station"`
	Location        GeoPoint  `json:"location"`
}

// NearbyStation is a station found by a proximity search, with its distance
// in meters from the query point.
type NearbyStation struct {
	Station
	Distance float64 `json:"distance,omitempty"`
}

// NearbyStop is a stop found by a proximity search, with its distance in
// meters from the query point.
type NearbyStop struct {
	Stop
	Distance float64 `json:"distance"`
}

// TrunkConnection is one direct trunk-route option between two stations.
type TrunkConnection struct {
	Route          Route `json:"route"`
	AmountToArrive int   `json:"amount_to_arrive"`
}
