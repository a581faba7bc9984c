package events

import (
	"context"

	"hypewatch/internal/adapters/kafka"
	"hypewatch/pkg/logger"
)

// Publisher publishes collection lifecycle events to Kafka
type Publisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

// NewPublisher creates a new event publisher
func NewPublisher(producer *kafka.Producer, log *logger.Logger) *Publisher {
	return &Publisher{
		producer: producer,
		log:      log,
	}
}

// PublishSourceOutcome publishes a per-source run outcome
func (p *Publisher) PublishSourceOutcome(ctx context.Context, event SourceOutcomeEvent) error {
	return p.publish(ctx, kafka.TopicSourceOutcome, event.Source, event)
}

// PublishCycleCompleted publishes a finished cycle summary
func (p *Publisher) PublishCycleCompleted(ctx context.Context, event CycleCompletedEvent) error {
	return p.publish(ctx, kafka.TopicCycleCompleted, event.CycleID, event)
}

// PublishQualityDegraded publishes a degraded batch notification
func (p *Publisher) PublishQualityDegraded(ctx context.Context, event QualityDegradedEvent) error {
	return p.publish(ctx, kafka.TopicQualityDegraded, event.Source, event)
}

// PublishAggregateUpdated publishes a fresh aggregate for downstream consumers
func (p *Publisher) PublishAggregateUpdated(ctx context.Context, event AggregateUpdatedEvent) error {
	return p.publish(ctx, kafka.TopicAggregateUpdated, event.CoinSymbol, event)
}

func (p *Publisher) publish(ctx context.Context, topic, key string, event interface{}) error {
	if err := p.producer.Publish(ctx, topic, key, event); err != nil {
		p.log.Errorf("Failed to publish event to %s: %v", topic, err)
		return err
	}
	return nil
}
