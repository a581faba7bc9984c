package clickhouse

import (
	"context"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"hypewatch/internal/domain/sentiment"
)

// Compile-time check
var _ sentiment.Repository = (*SentimentRepository)(nil)

// SentimentRepository implements sentiment.Repository using ClickHouse
type SentimentRepository struct {
	conn driver.Conn
}

// NewSentimentRepository creates a new sentiment repository
func NewSentimentRepository(conn driver.Conn) *SentimentRepository {
	return &SentimentRepository{conn: conn}
}

// InsertAggregate inserts one fused signal per coin per source
func (r *SentimentRepository) InsertAggregate(ctx context.Context, agg *sentiment.AggregateSentiment) error {
	query := `
		INSERT INTO sentiment_aggregates (
			coin_symbol, source, sentiment_score,
			sentiment_positive, sentiment_negative, sentiment_neutral,
			hype_score, hype_keyword_count, hype_emoji_count,
			post_count, total_engagement, timestamp
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)`

	return r.conn.Exec(ctx, query,
		agg.CoinSymbol, agg.Source, agg.SentimentScore,
		agg.SentimentPositive, agg.SentimentNegative, agg.SentimentNeutral,
		agg.HypeScore, agg.HypeKeywordCount, agg.HypeEmojiCount,
		agg.PostCount, agg.TotalEngagement, agg.Timestamp,
	)
}

// GetAggregatesSince retrieves aggregates for a coin since a specific time
func (r *SentimentRepository) GetAggregatesSince(ctx context.Context, coinSymbol string, since time.Time) ([]sentiment.AggregateSentiment, error) {
	var aggregates []sentiment.AggregateSentiment

	query := `
		SELECT * FROM sentiment_aggregates
		WHERE coin_symbol = $1 AND timestamp >= $2
		ORDER BY timestamp DESC`

	err := r.conn.Select(ctx, &aggregates, query, coinSymbol, since)
	return aggregates, err
}

// GetLatestBySource retrieves the most recent aggregate per source for a coin
func (r *SentimentRepository) GetLatestBySource(ctx context.Context, coinSymbol string, source string) (*sentiment.AggregateSentiment, error) {
	var agg sentiment.AggregateSentiment

	query := `
		SELECT * FROM sentiment_aggregates
		WHERE coin_symbol = $1 AND source = $2
		ORDER BY timestamp DESC
		LIMIT 1`

	err := r.conn.QueryRow(ctx, query, coinSymbol, source).ScanStruct(&agg)
	if err != nil {
		return nil, err
	}

	return &agg, nil
}
