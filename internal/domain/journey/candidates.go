package journey

import "github.com/baq-transit/service-routing/internal/domain/network"

// CandidateSet holds the boarding candidates near both ends of a journey.
// Any list may be empty.
type CandidateSet struct {
	StartStations []network.NearbyStation
	StartStops    []network.NearbyStop
	FinalStations []network.NearbyStation
	FinalStops    []network.NearbyStop
}

// NewCandidateSet runs BestStops over every stop group and flattens the results.
// Stations are kept as they are.
func NewCandidateSet(
	startStations []network.NearbyStation,
	startGroups [][]network.NearbyStop,
	finalStations []network.NearbyStation,
	finalGroups [][]network.NearbyStop,
) CandidateSet {
	return CandidateSet{
		StartStations: startStations,
		StartStops:    flattenBest(startGroups, true),
		FinalStations: finalStations,
		FinalStops:    flattenBest(finalGroups, false),
	}
}

func flattenBest(groups [][]network.NearbyStop, fromStart bool) []network.NearbyStop {
	var out []network.NearbyStop
	for _, group := range groups {
		out = append(out, BestStops(group, fromStart)...)
	}
	return out
}
