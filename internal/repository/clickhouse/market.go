package clickhouse

import (
	"context"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"hypewatch/internal/domain/market"
)

// Compile-time check
var _ market.Repository = (*MarketRepository)(nil)

// MarketRepository implements market.Repository using ClickHouse
type MarketRepository struct {
	conn driver.Conn
}

// NewMarketRepository creates a new market data repository
func NewMarketRepository(conn driver.Conn) *MarketRepository {
	return &MarketRepository{conn: conn}
}

// InsertPrice inserts one price tick
func (r *MarketRepository) InsertPrice(ctx context.Context, record *market.PriceRecord) error {
	query := `
		INSERT INTO coin_prices (
			coin_symbol, price_usd, market_cap, volume_24h,
			change_1h_pct, change_24h_pct, change_7d_pct,
			timestamp, collected_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)`

	return r.conn.Exec(ctx, query,
		record.CoinSymbol, record.PriceUSD, record.MarketCap, record.Volume24h,
		record.Change1hPct, record.Change24hPct, record.Change7dPct,
		record.Timestamp, record.CollectedAt,
	)
}

// GetPricesSince retrieves price ticks for a coin since a specific time
func (r *MarketRepository) GetPricesSince(ctx context.Context, coinSymbol string, since time.Time) ([]market.PriceRecord, error) {
	var records []market.PriceRecord

	query := `
		SELECT * FROM coin_prices
		WHERE coin_symbol = $1 AND timestamp >= $2
		ORDER BY timestamp DESC`

	err := r.conn.Select(ctx, &records, query, coinSymbol, since)
	return records, err
}
