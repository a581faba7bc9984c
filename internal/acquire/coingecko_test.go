package acquire

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/markets", r.URL.Path)
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currency"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestCoinGecko_Fetch(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `[
		{
			"id": "dogecoin",
			"symbol": "doge",
			"current_price": 0.21,
			"market_cap": 31000000000,
			"total_volume": 1200000000,
			"price_change_percentage_1h_in_currency": 0.4,
			"price_change_percentage_24h_in_currency": -2.1,
			"price_change_percentage_7d_in_currency": 11.8,
			"last_updated": "2026-08-30T10:15:00Z"
		},
		{
			"id": "pepe",
			"symbol": "pepe",
			"current_price": 0.000012,
			"market_cap": 5000000000,
			"total_volume": 800000000
		}
	]`)

	acquirer := NewCoinGecko(server.URL, 5*time.Second, 100)
	records, err := acquirer.Fetch(context.Background(), []string{"DOGE", "PEPE"})

	require.NoError(t, err)
	require.Len(t, records, 2)

	doge := records[0]
	assert.Equal(t, "DOGE", doge.CoinSymbol)
	assert.Equal(t, "0.21", doge.PriceUSD.String())
	assert.InDelta(t, -2.1, doge.Change24hPct, 1e-9)
	assert.Equal(t, time.Date(2026, 8, 30, 10, 15, 0, 0, time.UTC), doge.Timestamp)
	assert.False(t, doge.CollectedAt.IsZero())

	pepe := records[1]
	assert.Equal(t, "PEPE", pepe.CoinSymbol)
	// missing last_updated falls back to collection time
	assert.Equal(t, pepe.CollectedAt, pepe.Timestamp)
}

func TestCoinGecko_UnknownSymbolsSkipped(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `[]`)

	acquirer := NewCoinGecko(server.URL, 5*time.Second, 100)
	records, err := acquirer.Fetch(context.Background(), []string{"DOGE", "NOTACOIN"})

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCoinGecko_NoKnownCoins(t *testing.T) {
	acquirer := NewCoinGecko("http://unused", 5*time.Second, 100)

	_, err := acquirer.Fetch(context.Background(), []string{"NOTACOIN"})

	require.Error(t, err)
}

func TestCoinGecko_RateLimited(t *testing.T) {
	server := newTestServer(t, http.StatusTooManyRequests, "")

	acquirer := NewCoinGecko(server.URL, 5*time.Second, 100)
	_, err := acquirer.Fetch(context.Background(), []string{"DOGE"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
}

func TestCoinGecko_ServerError(t *testing.T) {
	server := newTestServer(t, http.StatusInternalServerError, "boom")

	acquirer := NewCoinGecko(server.URL, 5*time.Second, 100)
	_, err := acquirer.Fetch(context.Background(), []string{"DOGE"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestCoinGecko_MalformedBody(t *testing.T) {
	server := newTestServer(t, http.StatusOK, "{not json")

	acquirer := NewCoinGecko(server.URL, 5*time.Second, 100)
	_, err := acquirer.Fetch(context.Background(), []string{"DOGE"})

	require.Error(t, err)
}
