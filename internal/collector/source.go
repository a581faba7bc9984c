package collector

import (
	"context"
	"time"

	sentimentdomain "hypewatch/internal/domain/sentiment"
	"hypewatch/internal/events"
)

// Source is one upstream collection pipeline. Each implementation composes
// its acquirer, scorers, filter, assessor, and repository; the orchestrator
// only sees this interface.
type Source interface {
	Name() string

	// Collect runs the pipeline once. A returned error marks the whole
	// source run as failed; recoverable per-record problems are reported
	// through Result.ErrorCount instead.
	Collect(ctx context.Context) (Result, error)
}

// Result is what one source run produced
type Result struct {
	RecordsWritten int
	ErrorCount     int
	Warnings       []string
	Degradations   []QualityDegradation
	Aggregates     []sentimentdomain.AggregateSentiment
}

// QualityDegradation flags a batch that assessed below the acceptable tiers.
// Advisory: the data behind it was still written.
type QualityDegradation struct {
	CoinSymbol string
	Tier       string
	Score      float64
	Issues     []string
}

// AggregateCache keeps the latest aggregate per coin per source for cheap
// lookup by dashboards and downstream consumers.
type AggregateCache interface {
	StoreLatest(ctx context.Context, agg sentimentdomain.AggregateSentiment) error
}

// EventPublisher is the slice of the Kafka publisher the orchestrator needs
type EventPublisher interface {
	PublishSourceOutcome(ctx context.Context, event events.SourceOutcomeEvent) error
	PublishCycleCompleted(ctx context.Context, event events.CycleCompletedEvent) error
	PublishQualityDegraded(ctx context.Context, event events.QualityDegradedEvent) error
	PublishAggregateUpdated(ctx context.Context, event events.AggregateUpdatedEvent) error
}

// Locker serializes collection cycles across processes
type Locker interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string) error
}
