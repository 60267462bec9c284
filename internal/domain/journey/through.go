package journey

import "github.com/baq-transit/service-routing/internal/domain/network"

// Method names how a leg is travelled.
type Method string

const (
	MethodWalk        Method = "Walk"
	MethodAlimentador Method = "Alimentador"
	MethodTroncal     Method = "Troncal"
)

// Through describes how a step was reached. The set of implementations is
// closed: Walk and RouteLeg.
type Through interface {
	Method() Method
	isThrough()
}

// Walk is a direct walking leg of Distance meters.
type Walk struct {
	Distance float64
}

// Method implements Through.
func (Walk) Method() Method { return MethodWalk }

func (Walk) isThrough() {}

// RouteLeg is a transit leg on Route with LegsToArrive hops remaining.
// Build it with Alimentador or Troncal; a zero-value literal has no method.
type RouteLeg struct {
	method       Method
	Route        network.Route
	LegsToArrive int
}

// Alimentador builds a feeder-route leg.
func Alimentador(route network.Route, legsToArrive int) RouteLeg {
	return RouteLeg{method: MethodAlimentador, Route: route, LegsToArrive: legsToArrive}
}

// Troncal builds a trunk-route leg.
func Troncal(route network.Route, legsToArrive int) RouteLeg {
	return RouteLeg{method: MethodTroncal, Route: route, LegsToArrive: legsToArrive}
}

// Method implements Through.
func (l RouteLeg) Method() Method { return l.method }

func (RouteLeg) isThrough() {}
