package journey

import (
	"fmt"

	"github.com/baq-transit/service-routing/internal/domain/network"
)

// StepDocument is the transport shape of a Step.
type StepDocument struct {
	PlaceType PlaceType       `json:"place_type"`
	Data      any             `json:"data"`
	Through   ThroughDocument `json:"through"`
}

// ThroughDocument is the transport shape of a Through. Walk legs carry only
// Distance; route legs carry only RouteData and AmountToArrive.
type ThroughDocument struct {
	Method         Method         `json:"method"`
	Distance       *float64       `json:"distance,omitempty"`
	RouteData      *network.Route `json:"route_data,omitempty"`
	AmountToArrive *int           `json:"amount_to_arrive,omitempty"`
}

// EncodeThrough converts t to its transport shape.
func EncodeThrough(t Through) (ThroughDocument, error) {
	switch v := t.(type) {
	case Walk:
		distance := v.Distance
		return ThroughDocument{Method: MethodWalk, Distance: &distance}, nil
	case RouteLeg:
		if v.Method() == "" {
			return ThroughDocument{}, fmt.Errorf("route leg on %q has no method", v.Route.Name)
		}
		route := v.Route
		legs := v.LegsToArrive
		return ThroughDocument{Method: v.Method(), RouteData: &route, AmountToArrive: &legs}, nil
	case nil:
		return ThroughDocument{}, fmt.Errorf("step has no through")
	default:
		return ThroughDocument{}, fmt.Errorf("unsupported through %T", t)
	}
}

// EncodeStep converts s to its transport shape.
func EncodeStep(s Step) (StepDocument, error) {
	var data any
	switch v := s.(type) {
	case StationStep:
		data = v.Station
	case StopStep:
		data = v.Stop
	case PlaceStep:
		data = v.Place.GeoJSON()
	default:
		return StepDocument{}, fmt.Errorf("unsupported step %T", s)
	}

	through, err := EncodeThrough(s.Via())
	if err != nil {
		return StepDocument{}, fmt.Errorf("encode %s step: %w", s.PlaceType(), err)
	}

	return StepDocument{PlaceType: s.PlaceType(), Data: data, Through: through}, nil
}

// SerializePath converts every step of p, preserving order.
func SerializePath(p Path) ([]StepDocument, error) {
	docs := make([]StepDocument, 0, len(p))
	for i, s := range p {
		doc, err := EncodeStep(s)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// SerializePaths converts every path, preserving order.
func SerializePaths(paths []Path) ([][]StepDocument, error) {
	out := make([][]StepDocument, 0, len(paths))
	for i, p := range paths {
		docs, err := SerializePath(p)
		if err != nil {
			return nil, fmt.Errorf("path %d: %w", i, err)
		}
		out = append(out, docs)
	}
	return out, nil
}
