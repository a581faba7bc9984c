package sentiment

import (
	"context"
	"time"
)

// Repository defines the interface for aggregate sentiment storage (ClickHouse)
type Repository interface {
	// InsertAggregate persists one fused signal per coin per source
	InsertAggregate(ctx context.Context, agg *AggregateSentiment) error

	// GetAggregatesSince retrieves aggregates for a coin since a specific time
	GetAggregatesSince(ctx context.Context, coinSymbol string, since time.Time) ([]AggregateSentiment, error)

	// GetLatestBySource retrieves the most recent aggregate per source for a coin
	GetLatestBySource(ctx context.Context, coinSymbol string, source string) (*AggregateSentiment, error)
}
