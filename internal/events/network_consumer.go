package events

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/baq-transit/service-routing/internal/platform/kafka"
)

// CacheInvalidator drops every cached network lookup.
type CacheInvalidator interface {
	Purge()
}

// NetworkEventConsumer listens to network events and invalidates the lookup cache.
type NetworkEventConsumer struct {
	consumer *kafka.Consumer
	cache    CacheInvalidator
	logger   *zap.Logger
}

// NewNetworkEventConsumer creates a new NetworkEventConsumer.
func NewNetworkEventConsumer(
	brokers []string,
	groupID string,
	cache CacheInvalidator,
	logger *zap.Logger,
) *NetworkEventConsumer {
	return &NetworkEventConsumer{
		consumer: kafka.NewConsumer(brokers, groupID, TopicNetworkEvents, logger),
		cache:    cache,
		logger:   logger,
	}
}

// Start begins consuming network events. This blocks until the context is cancelled.
func (c *NetworkEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *NetworkEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *NetworkEventConsumer) handleMessage(_ context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from network topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case NetworkUpdated:
		return c.handleNetworkUpdated(cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled network event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *NetworkEventConsumer) handleNetworkUpdated(cloudEvent kafka.CloudEvent) error {
	var evt NetworkUpdatedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		// The payload is informational; a purge is still correct.
		c.logger.Warn("failed to parse NetworkUpdatedEvent data", zap.Error(err))
	}

	c.cache.Purge()
	c.logger.Info("lookup cache purged after network update",
		zap.String("event_id", cloudEvent.ID),
		zap.Strings("entities", evt.Entities),
	)
	return nil
}
