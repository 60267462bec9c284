package network

import (
	"fmt"
	"math"

	"github.com/baq-transit/service-routing/internal/platform/domain"
)

// Coordinate is an immutable WGS84 latitude/longitude pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// NewCoordinate validates the ranges and returns a Coordinate. NaN and
// infinities are rejected.
func NewCoordinate(lat, lon float64) (Coordinate, error) {
	if !finite(lat) || !finite(lon) {
		return Coordinate{}, domain.NewValidationError(fmt.Sprintf("coordinate is not a finite number: %g,%g", lon, lat))
	}
	if lat < -90 || lat > 90 {
		return Coordinate{}, domain.NewValidationError(fmt.Sprintf("latitude out of range: %g", lat))
	}
	if lon < -180 || lon > 180 {
		return Coordinate{}, domain.NewValidationError(fmt.Sprintf("longitude out of range: %g", lon))
	}
	return Coordinate{Lat: lat, Lon: lon}, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// GeoPoint is a GeoJSON Point geometry. Coordinates are [lon, lat].
type GeoPoint struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// GeoJSON converts the coordinate to its GeoJSON point form.
func (c Coordinate) GeoJSON() GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: [2]float64{c.Lon, c.Lat}}
}

// Coordinate converts the GeoJSON point back to a Coordinate.
func (p GeoPoint) Coordinate() Coordinate {
	return Coordinate{Lat: p.Coordinates[1], Lon: p.Coordinates[0]}
}
