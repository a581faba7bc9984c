package events

import "time"

// SourceOutcomeEvent is emitted once per source per cycle
type SourceOutcomeEvent struct {
	CycleID        string    `json:"cycle_id"`
	Source         string    `json:"source"`
	Status         string    `json:"status"`
	RecordsWritten int       `json:"records_written"`
	ErrorCount     int       `json:"error_count"`
	DurationMs     int64     `json:"duration_ms"`
	ErrorMessage   string    `json:"error_message,omitempty"`
	StartedAt      time.Time `json:"started_at"`
}

// CycleCompletedEvent is emitted once per collection cycle
type CycleCompletedEvent struct {
	CycleID      string    `json:"cycle_id"`
	Status       string    `json:"status"`
	TotalRecords int       `json:"total_records"`
	TotalErrors  int       `json:"total_errors"`
	DurationMs   int64     `json:"duration_ms"`
	Warnings     []string  `json:"warnings,omitempty"`
	CompletedAt  time.Time `json:"completed_at"`
}

// QualityDegradedEvent is emitted when a batch assesses as POOR or FAILED
type QualityDegradedEvent struct {
	CycleID    string    `json:"cycle_id"`
	Source     string    `json:"source"`
	CoinSymbol string    `json:"coin_symbol"`
	Tier       string    `json:"tier"`
	Score      float64   `json:"score"`
	Issues     []string  `json:"issues,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// AggregateUpdatedEvent notifies downstream consumers of a fresh aggregate
type AggregateUpdatedEvent struct {
	CycleID         string    `json:"cycle_id"`
	CoinSymbol      string    `json:"coin_symbol"`
	Source          string    `json:"source"`
	SentimentScore  float64   `json:"sentiment_score"`
	HypeScore       float64   `json:"hype_score"`
	PostCount       int64     `json:"post_count"`
	TotalEngagement int64     `json:"total_engagement"`
	Timestamp       time.Time `json:"timestamp"`
}
