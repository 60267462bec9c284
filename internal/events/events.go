package events

import (
	"time"

	"github.com/baq-transit/service-routing/internal/domain/network"
)

// Source identifies this service in CloudEvent envelopes.
const Source = "service-routing"

const (
	TopicRoutingEvents = "routing.events"
	TopicNetworkEvents = "network.events"
)

const (
	RoutingPathsPlanned = "routing.paths_planned"
	NetworkUpdated      = "network.updated"
)

// PathsPlannedEvent is published after every successful planning request.
type PathsPlannedEvent struct {
	RequestID  string             `json:"request_id,omitempty"`
	Start      network.Coordinate `json:"start"`
	Final      network.Coordinate `json:"final"`
	PathCount  int                `json:"path_count"`
	Strategies []string           `json:"strategies"`
	PlannedAt  time.Time          `json:"planned_at"`
}

// NetworkUpdatedEvent announces that stations, stops or routes were reloaded.
type NetworkUpdatedEvent struct {
	Entities  []string  `json:"entities,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
