package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"hypewatch/internal/domain/event"
)

// Compile-time check
var _ event.Repository = (*EventRepository)(nil)

// EventRepository implements event.Repository using sqlx
type EventRepository struct {
	db DBTX
}

// NewEventRepository creates a new market event repository
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// NewEventRepositoryWithTx creates a repository bound to a transaction
func NewEventRepositoryWithTx(tx DBTX) *EventRepository {
	return &EventRepository{db: tx}
}

// Insert inserts a manually logged market event
func (r *EventRepository) Insert(ctx context.Context, ev *event.MarketEvent) error {
	query := `
		INSERT INTO market_events (
			id, coin_symbol, category, description, sentiment,
			impact_score, source, url, timestamp, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)`

	_, err := r.db.ExecContext(ctx, query,
		ev.ID, ev.CoinSymbol, ev.Category, ev.Description, ev.Sentiment,
		ev.ImpactScore, ev.Source, ev.URL, ev.Timestamp, ev.CreatedAt,
	)

	return err
}

// ListRecent retrieves the most recent events for a coin. An empty coin
// symbol lists events for all coins.
func (r *EventRepository) ListRecent(ctx context.Context, coinSymbol string, limit int) ([]event.MarketEvent, error) {
	var events []event.MarketEvent

	query := `
		SELECT * FROM market_events
		WHERE ($1 = '' OR coin_symbol = $1)
		ORDER BY timestamp DESC
		LIMIT $2`

	err := r.db.SelectContext(ctx, &events, query, coinSymbol, limit)
	if err != nil {
		return nil, err
	}

	return events, nil
}

// GetStats summarises logged events for a coin
func (r *EventRepository) GetStats(ctx context.Context, coinSymbol string) (*event.Stats, error) {
	var summary struct {
		TotalEvents     int     `db:"total_events"`
		AvgImpact       float64 `db:"avg_impact"`
		HighImpactCount int     `db:"high_impact_count"`
	}

	query := `
		SELECT
			count(*) AS total_events,
			coalesce(avg(impact_score), 0) AS avg_impact,
			count(*) FILTER (WHERE impact_score >= 7) AS high_impact_count
		FROM market_events
		WHERE ($1 = '' OR coin_symbol = $1)`

	if err := r.db.GetContext(ctx, &summary, query, coinSymbol); err != nil {
		return nil, err
	}

	stats := &event.Stats{
		TotalEvents:     summary.TotalEvents,
		AvgImpact:       summary.AvgImpact,
		HighImpactCount: summary.HighImpactCount,
		ByCategory:      make(map[event.Category]int),
		BySentiment:     make(map[string]int),
	}

	var byCategory []struct {
		Category event.Category `db:"category"`
		Count    int            `db:"count"`
	}
	categoryQuery := `
		SELECT category, count(*) AS count
		FROM market_events
		WHERE ($1 = '' OR coin_symbol = $1)
		GROUP BY category`
	if err := r.db.SelectContext(ctx, &byCategory, categoryQuery, coinSymbol); err != nil {
		return nil, err
	}
	for _, row := range byCategory {
		stats.ByCategory[row.Category] = row.Count
	}

	var bySentiment []struct {
		Sentiment string `db:"sentiment"`
		Count     int    `db:"count"`
	}
	sentimentQuery := `
		SELECT sentiment, count(*) AS count
		FROM market_events
		WHERE ($1 = '' OR coin_symbol = $1)
		GROUP BY sentiment`
	if err := r.db.SelectContext(ctx, &bySentiment, sentimentQuery, coinSymbol); err != nil {
		return nil, err
	}
	for _, row := range bySentiment {
		stats.BySentiment[row.Sentiment] = row.Count
	}

	return stats, nil
}
