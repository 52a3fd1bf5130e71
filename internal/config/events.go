package config

import (
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/evaluation-service/internal/events"
	"github.com/ThreeDotsLabs/watermill/message"
)

// EventConfig holds configuration for event publishing
type EventConfig struct {
	Enabled       bool
	Publisher     string // kafka or gochannel
	KafkaBrokers  string
	Topic         string
	ConsumerGroup string
}

// EventBus bundles the publisher handed to services and the subscriber used by the listener.
// Subscriber is nil when events are disabled.
type EventBus struct {
	Publisher  events.EventPublisher
	Subscriber message.Subscriber
}

// Close releases the publisher and subscriber
func (b *EventBus) Close() error {
	var firstErr error
	if b.Publisher != nil {
		firstErr = b.Publisher.Close()
	}
	if b.Subscriber != nil {
		if err := b.Subscriber.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// GetKafkaBrokers returns Kafka brokers as a slice
func (c *EventConfig) GetKafkaBrokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// CreateEventBus creates the event transport based on configuration
func (c *EventConfig) CreateEventBus(logger *slog.Logger) (*EventBus, error) {
	if !c.Enabled {
		logger.Info("Event publishing disabled, using mock publisher")
		return &EventBus{Publisher: events.NewMockEventPublisher(logger)}, nil
	}

	switch c.Publisher {
	case "kafka":
		logger.Info("Creating Kafka event bus",
			"brokers", c.KafkaBrokers,
			"topic", c.Topic,
			"consumer_group", c.ConsumerGroup)

		kafkaConfig := events.PublisherConfig{
			KafkaBrokers:  c.GetKafkaBrokers(),
			TopicName:     c.Topic,
			ConsumerGroup: c.ConsumerGroup,
			Logger:        logger,
		}
		publisher, err := events.NewKafkaEventPublisher(kafkaConfig)
		if err != nil {
			return nil, err
		}
		subscriber, err := events.NewKafkaSubscriber(kafkaConfig)
		if err != nil {
			publisher.Close()
			return nil, err
		}
		return &EventBus{Publisher: publisher, Subscriber: subscriber}, nil
	case "gochannel":
		logger.Info("Using in-process event bus", "topic", c.Topic)
		pubSub := events.NewGoChannel(logger)
		return &EventBus{
			Publisher:  events.NewWatermillEventPublisher(pubSub, c.Topic, logger),
			Subscriber: pubSub,
		}, nil
	default:
		logger.Warn("Unknown event publisher type, falling back to mock", "publisher", c.Publisher)
		return &EventBus{Publisher: events.NewMockEventPublisher(logger)}, nil
	}
}
