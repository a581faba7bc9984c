package event

import (
	"context"
)

// Repository defines the interface for market event storage (PostgreSQL)
type Repository interface {
	Insert(ctx context.Context, ev *MarketEvent) error
	ListRecent(ctx context.Context, coinSymbol string, limit int) ([]MarketEvent, error)
	GetStats(ctx context.Context, coinSymbol string) (*Stats, error)
}
