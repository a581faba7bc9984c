package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceRecord is one price tick for a coin, as delivered by the price feed
// collaborator.
type PriceRecord struct {
	CoinSymbol   string          `ch:"coin_symbol"`
	PriceUSD     decimal.Decimal `ch:"price_usd"`
	MarketCap    decimal.Decimal `ch:"market_cap"`
	Volume24h    decimal.Decimal `ch:"volume_24h"`
	Change1hPct  float64         `ch:"change_1h_pct"`
	Change24hPct float64         `ch:"change_24h_pct"`
	Change7dPct  float64         `ch:"change_7d_pct"`
	Timestamp    time.Time       `ch:"timestamp"`
	CollectedAt  time.Time       `ch:"collected_at"`
}
