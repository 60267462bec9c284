package journey_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baq-transit/service-routing/internal/domain/journey"
	"github.com/baq-transit/service-routing/internal/domain/network"
	"github.com/baq-transit/service-routing/internal/domain/network/networktest"
)

func TestEncodeThrough_Walk(t *testing.T) {
	doc, err := journey.EncodeThrough(journey.Walk{Distance: 42.5})
	require.NoError(t, err)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"method":"Walk","distance":42.5}`, string(raw))
}

func TestEncodeThrough_RouteLeg(t *testing.T) {
	sample := networktest.NewSample()

	doc, err := journey.EncodeThrough(journey.Troncal(sample.S1, 7))
	require.NoError(t, err)

	var got map[string]any
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &got))

	assert.Equal(t, "Troncal", got["method"])
	assert.Equal(t, float64(7), got["amount_to_arrive"])
	assert.NotContains(t, got, "distance")
	routeData := got["route_data"].(map[string]any)
	assert.Equal(t, float64(4), routeData["transmetro_id"])
	assert.Equal(t, "S1", routeData["name"])
}

func TestEncodeThrough_RouteLegWithoutMethod(t *testing.T) {
	sample := networktest.NewSample()

	_, err := journey.EncodeThrough(journey.RouteLeg{Route: sample.S1, LegsToArrive: 7})
	assert.ErrorContains(t, err, "no method")
}

func TestEncodeThrough_Nil(t *testing.T) {
	_, err := journey.EncodeThrough(nil)
	assert.Error(t, err)
}

func TestEncodeStep_PlaceIsGeoJSONPoint(t *testing.T) {
	doc, err := journey.EncodeStep(journey.PlaceStep{
		Place:   network.Coordinate{Lat: 10.94, Lon: -74.80},
		Through: journey.Walk{Distance: 12},
	})
	require.NoError(t, err)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"place_type": "Place",
		"data": {"type": "Point", "coordinates": [-74.80, 10.94]},
		"through": {"method": "Walk", "distance": 12}
	}`, string(raw))
}

func TestSerializePath_PreservesOrderAndShapes(t *testing.T) {
	sample := networktest.NewSample()
	path := journey.Path{
		journey.StopStep{Stop: network.NearbyStop{Stop: sample.Puerta7, Distance: 40}, Through: journey.Walk{Distance: 40}},
		journey.StationStep{Station: network.NearbyStation{Station: sample.JoeArroyo}, Through: journey.Alimentador(sample.U30, 14)},
		journey.StationStep{Station: network.NearbyStation{Station: sample.PachoGalan}, Through: journey.Troncal(sample.R2, 9)},
		journey.PlaceStep{Place: networktest.PachoGalan, Through: journey.Walk{Distance: 60}},
	}

	docs, err := journey.SerializePath(path)
	require.NoError(t, err)
	require.Len(t, docs, 4)

	raw, err := json.Marshal(docs)
	require.NoError(t, err)
	var got []map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))

	placeTypes := make([]string, len(got))
	methods := make([]string, len(got))
	for i, step := range got {
		placeTypes[i] = step["place_type"].(string)
		methods[i] = step["through"].(map[string]any)["method"].(string)
	}
	assert.Equal(t, []string{"Stop", "Station", "Station", "Place"}, placeTypes)
	assert.Equal(t, []string{"Walk", "Alimentador", "Troncal", "Walk"}, methods)

	stop := got[0]["data"].(map[string]any)
	assert.Equal(t, "Uninorte Puerta 7", stop["description"])
	assert.Equal(t, float64(40), stop["distance"])

	station := got[2]["data"].(map[string]any)
	assert.Equal(t, float64(101), station["station_id"])
	assert.NotContains(t, station, "distance", "resolved stations carry no distance")

	feeder := got[1]["through"].(map[string]any)
	assert.Equal(t, float64(37), feeder["route_data"].(map[string]any)["transmetro_id"])
	assert.Equal(t, float64(14), feeder["amount_to_arrive"])
}

func TestSerializePaths_EmptyAndErrors(t *testing.T) {
	docs, err := journey.SerializePaths(nil)
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)

	_, err = journey.SerializePath(journey.Path{journey.StationStep{Station: network.NearbyStation{}}})
	assert.Error(t, err, "a step without a through cannot be encoded")
}
