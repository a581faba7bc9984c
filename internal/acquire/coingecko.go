package acquire

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"hypewatch/internal/domain/market"
	"hypewatch/pkg/errors"
	"hypewatch/pkg/logger"
)

// DefaultCoinGeckoURL is the public API base
const DefaultCoinGeckoURL = "https://api.coingecko.com/api/v3"

// defaultCoinIDs maps ticker symbols to CoinGecko coin ids for the default
// universe. Symbols outside the map are skipped with a warning.
var defaultCoinIDs = map[string]string{
	"DOGE": "dogecoin",
	"PEPE": "pepe",
	"SHIB": "shiba-inu",
	"WIF":  "dogwifcoin",
	"BONK": "bonk",
	"BTC":  "bitcoin",
	"ETH":  "ethereum",
}

// CoinGecko fetches current market data through the /coins/markets endpoint.
// The free tier throttles hard, so every request passes a shared limiter.
type CoinGecko struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	coinIDs    map[string]string
	log        *logger.Logger
}

var _ market.Acquirer = (*CoinGecko)(nil)

// NewCoinGecko creates a price acquirer. An empty baseURL uses the public
// API; rps bounds outgoing requests per second.
func NewCoinGecko(baseURL string, timeout time.Duration, rps float64) *CoinGecko {
	if baseURL == "" {
		baseURL = DefaultCoinGeckoURL
	}
	return &CoinGecko{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		coinIDs:    defaultCoinIDs,
		log:        logger.Get().With("component", "coingecko"),
	}
}

// coinMarket is the subset of the /coins/markets response we use
type coinMarket struct {
	ID                       string  `json:"id"`
	Symbol                   string  `json:"symbol"`
	CurrentPrice             float64 `json:"current_price"`
	MarketCap                float64 `json:"market_cap"`
	TotalVolume              float64 `json:"total_volume"`
	PriceChangePercentage1h  float64 `json:"price_change_percentage_1h_in_currency"`
	PriceChangePercentage24h float64 `json:"price_change_percentage_24h_in_currency"`
	PriceChangePercentage7d  float64 `json:"price_change_percentage_7d_in_currency"`
	LastUpdated              string  `json:"last_updated"`
}

// Fetch implements market.Acquirer. One API call covers every requested coin.
func (c *CoinGecko) Fetch(ctx context.Context, coinSymbols []string) ([]market.PriceRecord, error) {
	ids := make([]string, 0, len(coinSymbols))
	symbolByID := make(map[string]string, len(coinSymbols))
	for _, symbol := range coinSymbols {
		id, ok := c.coinIDs[strings.ToUpper(symbol)]
		if !ok {
			c.log.Warnf("No CoinGecko id for symbol %s, skipping", symbol)
			continue
		}
		ids = append(ids, id)
		symbolByID[id] = strings.ToUpper(symbol)
	}
	if len(ids) == 0 {
		return nil, errors.Wrap(errors.ErrInvalidInput, "no known coins requested")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "rate limiter wait")
	}

	query := url.Values{}
	query.Set("vs_currency", "usd")
	query.Set("ids", strings.Join(ids, ","))
	query.Set("price_change_percentage", "1h,24h,7d")

	endpoint := fmt.Sprintf("%s/coins/markets?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create CoinGecko request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "CoinGecko request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, errors.Wrap(errors.ErrUnavailable, "CoinGecko rate limit reached")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("CoinGecko returned status %d: %s", resp.StatusCode, string(body))
	}

	var markets []coinMarket
	if err := json.NewDecoder(resp.Body).Decode(&markets); err != nil {
		return nil, errors.Wrap(err, "decode CoinGecko response")
	}

	now := time.Now().UTC()
	records := make([]market.PriceRecord, 0, len(markets))
	for _, m := range markets {
		symbol, ok := symbolByID[m.ID]
		if !ok {
			continue
		}
		records = append(records, market.PriceRecord{
			CoinSymbol:   symbol,
			PriceUSD:     decimal.NewFromFloat(m.CurrentPrice),
			MarketCap:    decimal.NewFromFloat(m.MarketCap),
			Volume24h:    decimal.NewFromFloat(m.TotalVolume),
			Change1hPct:  m.PriceChangePercentage1h,
			Change24hPct: m.PriceChangePercentage24h,
			Change7dPct:  m.PriceChangePercentage7d,
			Timestamp:    parseTimestamp(m.LastUpdated, now),
			CollectedAt:  now,
		})
	}

	c.log.Debugf("Fetched %d price ticks for %d requested coins", len(records), len(coinSymbols))
	return records, nil
}

// parseTimestamp falls back to the collection time when the API timestamp is
// absent or malformed.
func parseTimestamp(raw string, fallback time.Time) time.Time {
	if raw == "" {
		return fallback
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fallback
	}
	return ts.UTC()
}
