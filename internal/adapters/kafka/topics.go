package kafka

// Topic definitions for Kafka event streaming
const (
	// Collection lifecycle events
	TopicCycleCompleted  = "collection.cycles"
	TopicSourceOutcome   = "collection.outcomes"
	TopicQualityDegraded = "collection.quality_degraded"

	// Aggregate sentiment updates for downstream correlation consumers
	TopicAggregateUpdated = "sentiment.aggregates"
)
