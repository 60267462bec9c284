package journey

import (
	"sort"

	"github.com/baq-transit/service-routing/internal/domain/network"
)

// StopDifference is the smallest gap in route position that makes a second
// stop on the same route worth offering.
//
// Two stops can sit a few meters apart yet be far apart along the route: from
// stop sequence 5 a bus travels much longer to the parent station than from
// stop sequence 17.
const StopDifference = 8

// BestStops reduces a cluster of stops that share a route to one or two
// representatives. The nearest stop by distance always comes first. The stop
// nearest by route position is appended when its position differs from the
// first by more than StopDifference.
//
// fromStart selects the position metric: amount_to_arrive near the start
// point, stop_sequence near the final point.
func BestStops(stops []network.NearbyStop, fromStart bool) []network.NearbyStop {
	if len(stops) == 0 {
		return nil
	}

	byDistance := make([]network.NearbyStop, len(stops))
	copy(byDistance, stops)
	sort.SliceStable(byDistance, func(i, j int) bool {
		return byDistance[i].Distance < byDistance[j].Distance
	})
	nearest := byDistance[0]

	metric := positionMetric(fromStart)
	earliest := stops[0]
	for _, s := range stops[1:] {
		if metric(s) < metric(earliest) {
			earliest = s
		}
	}

	if abs(metric(nearest)-metric(earliest)) > StopDifference {
		return []network.NearbyStop{nearest, earliest}
	}
	return []network.NearbyStop{nearest}
}

func positionMetric(fromStart bool) func(network.NearbyStop) int {
	if fromStart {
		return func(s network.NearbyStop) int { return s.AmountToArrive }
	}
	return func(s network.NearbyStop) int { return s.StopSequence }
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
