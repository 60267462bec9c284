package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/baq-transit/service-routing/internal/domain/network"
	"github.com/baq-transit/service-routing/internal/platform/database"
	"github.com/baq-transit/service-routing/internal/platform/domain"
)

// RouteModel is the GORM model for the routes table.
type RouteModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TransmetroID int       `gorm:"not null;index"`
	Name         string    `gorm:"type:varchar(50);not null"`
	Kind         string    `gorm:"type:varchar(20);not null"`
	Description  string    `gorm:"type:text;not null;default:''"`
}

func (RouteModel) TableName() string { return "routes" }

// StationModel is the GORM model for the stations table. The location column
// is generated from lat/lon by the database.
type StationModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StationID int       `gorm:"not null;uniqueIndex"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Lat       float64   `gorm:"not null"`
	Lon       float64   `gorm:"not null"`
}

func (StationModel) TableName() string { return "stations" }

// StationDestinationModel is the GORM model for the station_destinations table.
type StationDestinationModel struct {
	ID             int64     `gorm:"primaryKey;autoIncrement"`
	StationID      uuid.UUID `gorm:"type:uuid;not null"`
	DestinationID  uuid.UUID `gorm:"type:uuid;not null"`
	RouteID        uuid.UUID `gorm:"type:uuid;not null"`
	AmountToArrive int       `gorm:"not null"`
	Position       int       `gorm:"not null;default:0"`
}

func (StationDestinationModel) TableName() string { return "station_destinations" }

// StopModel is the GORM model for the stops table.
type StopModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Description     string    `gorm:"type:varchar(200);not null"`
	StopSequence    int       `gorm:"not null"`
	AmountToArrive  int       `gorm:"not null"`
	RouteID         uuid.UUID `gorm:"type:uuid;not null;index"`
	ParentStationID uuid.UUID `gorm:"type:uuid;not null"`
	Lat             float64   `gorm:"not null"`
	Lon             float64   `gorm:"not null"`
}

func (StopModel) TableName() string { return "stops" }

type nearbyStationRow struct {
	StationModel
	Distance float64
}

type nearbyStopRow struct {
	StopModel
	Distance float64
}

type trunkConnectionRow struct {
	RouteModel
	AmountToArrive int
}

const nearbyStationsSQL = `
SELECT s.id, s.station_id, s.name, s.lat, s.lon,
       ST_Distance(s.location, ST_SetSRID(ST_MakePoint(@lon, @lat), 4326)::geography) AS distance
FROM stations s
WHERE ST_DWithin(s.location, ST_SetSRID(ST_MakePoint(@lon, @lat), 4326)::geography, @radius)
ORDER BY distance, s.station_id`

const nearbyStopsSQL = `
SELECT st.id, st.description, st.stop_sequence, st.amount_to_arrive, st.route_id,
       st.parent_station_id, st.lat, st.lon,
       ST_Distance(st.location, ST_SetSRID(ST_MakePoint(@lon, @lat), 4326)::geography) AS distance
FROM stops st
WHERE ST_DWithin(st.location, ST_SetSRID(ST_MakePoint(@lon, @lat), 4326)::geography, @radius)
ORDER BY distance, st.id`

const trunkConnectionsSQL = `
SELECT r.id, r.transmetro_id, r.name, r.kind, r.description, d.amount_to_arrive
FROM station_destinations d
JOIN routes r ON r.id = d.route_id
WHERE d.station_id = @start AND d.destination_id = @final
ORDER BY d.position, d.id
LIMIT @limit`

// GormNetworkRepository implements network.Lookup on PostGIS using GORM.
type GormNetworkRepository struct {
	db *gorm.DB
}

func NewGormNetworkRepository(db *gorm.DB) *GormNetworkRepository {
	return &GormNetworkRepository{db: db}
}

func (r *GormNetworkRepository) NearbyStations(ctx context.Context, at network.Coordinate, maxDistance float64) ([]network.NearbyStation, error) {
	var rows []nearbyStationRow
	if err := r.db.WithContext(ctx).
		Raw(nearbyStationsSQL, geoArgs(at, maxDistance)).
		Scan(&rows).Error; err != nil {
		return nil, database.Describe("nearby stations", err)
	}
	out := make([]network.NearbyStation, len(rows))
	for i, row := range rows {
		out[i] = network.NearbyStation{Station: toStation(&row.StationModel), Distance: row.Distance}
	}
	return out, nil
}

// NearbyGroupedStops returns nearby stops grouped by route. Groups appear in
// the order of their nearest stop; each group keeps distance order.
func (r *GormNetworkRepository) NearbyGroupedStops(ctx context.Context, at network.Coordinate, maxDistance float64) ([][]network.NearbyStop, error) {
	var rows []nearbyStopRow
	if err := r.db.WithContext(ctx).
		Raw(nearbyStopsSQL, geoArgs(at, maxDistance)).
		Scan(&rows).Error; err != nil {
		return nil, database.Describe("nearby stops", err)
	}

	index := make(map[uuid.UUID]int)
	var groups [][]network.NearbyStop
	for _, row := range rows {
		i, ok := index[row.RouteID]
		if !ok {
			i = len(groups)
			index[row.RouteID] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], network.NearbyStop{Stop: toStop(&row.StopModel), Distance: row.Distance})
	}
	return groups, nil
}

func (r *GormNetworkRepository) StationByID(ctx context.Context, id uuid.UUID) (*network.Station, error) {
	var model StationModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Station", id.String())
		}
		return nil, database.Describe("find station", err)
	}
	station := toStation(&model)
	return &station, nil
}

func (r *GormNetworkRepository) RouteByID(ctx context.Context, id uuid.UUID) (*network.Route, error) {
	var model RouteModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Route", id.String())
		}
		return nil, database.Describe("find route", err)
	}
	route := toRoute(&model)
	if err := checkRouteKind(route); err != nil {
		return nil, err
	}
	return &route, nil
}

// TrunkConnectionsBetween returns up to limit direct routes from startID to
// finalID, in the order the start station lists them.
func (r *GormNetworkRepository) TrunkConnectionsBetween(ctx context.Context, startID, finalID uuid.UUID, limit int) ([]network.TrunkConnection, error) {
	if limit < 1 {
		limit = 1
	}
	var rows []trunkConnectionRow
	if err := r.db.WithContext(ctx).
		Raw(trunkConnectionsSQL, map[string]any{"start": startID, "final": finalID, "limit": limit}).
		Scan(&rows).Error; err != nil {
		return nil, database.Describe("trunk connections", err)
	}
	out := make([]network.TrunkConnection, len(rows))
	for i, row := range rows {
		route := toRoute(&row.RouteModel)
		if err := checkRouteKind(route); err != nil {
			return nil, err
		}
		out[i] = network.TrunkConnection{Route: route, AmountToArrive: row.AmountToArrive}
	}
	return out, nil
}

func checkRouteKind(route network.Route) error {
	if !route.Kind.IsValid() {
		return domain.NewInternalError(
			fmt.Sprintf("data integrity: route %s has unknown kind %q", route.ID, route.Kind), nil)
	}
	return nil
}

func geoArgs(at network.Coordinate, radius float64) map[string]any {
	return map[string]any{"lat": at.Lat, "lon": at.Lon, "radius": radius}
}

func toStation(m *StationModel) network.Station {
	return network.Station{
		ID:        m.ID,
		StationID: m.StationID,
		Name:      m.Name,
		Location:  network.Coordinate{Lat: m.Lat, Lon: m.Lon}.GeoJSON(),
	}
}

func toStop(m *StopModel) network.Stop {
	return network.Stop{
		ID:              m.ID,
		Description:     m.Description,
		StopSequence:    m.StopSequence,
		AmountToArrive:  m.AmountToArrive,
		RouteID:         m.RouteID,
		ParentStationID: m.ParentStationID,
		Location:        network.Coordinate{Lat: m.Lat, Lon: m.Lon}.GeoJSON(),
	}
}

func toRoute(m *RouteModel) network.Route {
	return network.Route{
		ID:           m.ID,
		TransmetroID: m.TransmetroID,
		Name:         m.Name,
		Kind:         network.RouteKind(m.Kind),
		Description:  m.Description,
	}
}
