package journey

import "github.com/baq-transit/service-routing/internal/domain/network"

// PlaceType discriminates the kinds of Step.
type PlaceType string

const (
	PlaceTypeStation PlaceType = "Station"
	PlaceTypeStop    PlaceType = "Stop"
	PlaceTypePlace   PlaceType = "Place"
)

// Step is one visited point of a journey paired with how it was reached.
// The set of implementations is closed: StationStep, StopStep and PlaceStep.
type Step interface {
	PlaceType() PlaceType
	Via() Through
	isStep()
}

// StationStep arrives at a station.
type StationStep struct {
	Station network.NearbyStation
	Through Through
}

// PlaceType implements Step.
func (StationStep) PlaceType() PlaceType { return PlaceTypeStation }

// Via implements Step.
func (s StationStep) Via() Through { return s.Through }

func (StationStep) isStep() {}

// StopStep arrives at a feeder stop.
type StopStep struct {
	Stop    network.NearbyStop
	Through Through
}

// PlaceType implements Step.
func (StopStep) PlaceType() PlaceType { return PlaceTypeStop }

// Via implements Step.
func (s StopStep) Via() Through { return s.Through }

func (StopStep) isStep() {}

// PlaceStep arrives at a raw coordinate, the journey's final point.
type PlaceStep struct {
	Place   network.Coordinate
	Through Through
}

// PlaceType implements Step.
func (PlaceStep) PlaceType() PlaceType { return PlaceTypePlace }

// Via implements Step.
func (s PlaceStep) Via() Through { return s.Through }

func (PlaceStep) isStep() {}

// Path is an ordered journey. An empty Path means a strategy found no journey.
type Path []Step

// IsEmpty reports whether p carries no steps.
func (p Path) IsEmpty() bool { return len(p) == 0 }
