package market

import (
	"context"
	"time"
)

// Acquirer fetches current price data for a set of coins (external price API)
type Acquirer interface {
	Fetch(ctx context.Context, coinSymbols []string) ([]PriceRecord, error)
}

// Repository defines the interface for price data storage (ClickHouse)
type Repository interface {
	// InsertPrice persists a single price tick
	InsertPrice(ctx context.Context, record *PriceRecord) error

	GetPricesSince(ctx context.Context, coinSymbol string, since time.Time) ([]PriceRecord, error)
}
