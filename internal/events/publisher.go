package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/baq-transit/service-routing/internal/platform/kafka"
)

// Publisher sends routing events to the message broker.
type Publisher interface {
	PublishPathsPlanned(ctx context.Context, evt PathsPlannedEvent) error
	Close() error
}

// PublisherMetrics is the slice of the metrics collector publishers report to.
type PublisherMetrics interface {
	EventPublishedInc()
	EventPublishErrInc()
	NATSSetConnected(connected bool)
}

// KafkaPublisher writes CloudEvents to the routing topic.
type KafkaPublisher struct {
	producer *kafka.Producer
	metrics  PublisherMetrics
}

// NewKafkaPublisher creates a KafkaPublisher. m may be nil.
func NewKafkaPublisher(brokers []string, m PublisherMetrics, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: kafka.NewProducer(brokers, logger), metrics: m}
}

// PublishPathsPlanned implements Publisher. Events are keyed by request id so
// that one request's events land on one partition.
func (p *KafkaPublisher) PublishPathsPlanned(ctx context.Context, evt PathsPlannedEvent) error {
	ce, err := kafka.NewCloudEvent(Source, RoutingPathsPlanned, evt)
	if err != nil {
		return err
	}
	key := evt.RequestID
	if key == "" {
		key = ce.ID
	}
	err = p.producer.PublishEventWithKey(ctx, TopicRoutingEvents, key, ce)
	observe(p.metrics, err)
	return err
}

// Close implements Publisher.
func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// NATSPublisher publishes CloudEvents on a subject named after the event type.
type NATSPublisher struct {
	nc      *nats.Conn
	metrics PublisherMetrics
}

// NewNATSPublisher connects to url. m may be nil.
func NewNATSPublisher(url string, m PublisherMetrics, logger *zap.Logger) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name(Source),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			logger.Warn("nats disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(true)
			}
			logger.Info("nats reconnected", zap.String("url", c.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			logger.Info("nats connection closed")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats at %s: %w", url, err)
	}
	if m != nil {
		m.NATSSetConnected(true)
	}
	return &NATSPublisher{nc: nc, metrics: m}, nil
}

// PublishPathsPlanned implements Publisher.
func (p *NATSPublisher) PublishPathsPlanned(_ context.Context, evt PathsPlannedEvent) error {
	ce, err := kafka.NewCloudEvent(Source, RoutingPathsPlanned, evt)
	if err != nil {
		return err
	}
	b, err := json.Marshal(ce)
	if err != nil {
		return fmt.Errorf("failed to marshal cloud event: %w", err)
	}
	err = p.nc.Publish(RoutingPathsPlanned, b)
	observe(p.metrics, err)
	return err
}

// Close drains pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	if p.nc == nil {
		return nil
	}
	err := p.nc.Drain()
	p.nc.Close()
	return err
}

// NopPublisher discards every event. Used when EVENTS_DRIVER is "none".
type NopPublisher struct{}

// PublishPathsPlanned implements Publisher.
func (NopPublisher) PublishPathsPlanned(context.Context, PathsPlannedEvent) error { return nil }

// Close implements Publisher.
func (NopPublisher) Close() error { return nil }

func observe(m PublisherMetrics, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.EventPublishErrInc()
		return
	}
	m.EventPublishedInc()
}
