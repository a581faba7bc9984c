package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"hypewatch/internal/domain/collection"
)

// Compile-time check
var _ collection.LogRepository = (*CollectionLogRepository)(nil)

// CollectionLogRepository implements collection.LogRepository using sqlx
type CollectionLogRepository struct {
	db DBTX
}

// NewCollectionLogRepository creates a new collection log repository
func NewCollectionLogRepository(db *sqlx.DB) *CollectionLogRepository {
	return &CollectionLogRepository{db: db}
}

// NewCollectionLogRepositoryWithTx creates a repository bound to a transaction
func NewCollectionLogRepositoryWithTx(tx DBTX) *CollectionLogRepository {
	return &CollectionLogRepository{db: tx}
}

// AppendOutcome appends one per-source run outcome
func (r *CollectionLogRepository) AppendOutcome(ctx context.Context, outcome *collection.Outcome) error {
	query := `
		INSERT INTO collection_log (
			source, status, records_written, error_count,
			duration_ms, error_message, started_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)`

	_, err := r.db.ExecContext(ctx, query,
		outcome.Source, outcome.Status, outcome.RecordsWritten, outcome.ErrorCount,
		outcome.DurationMs, outcome.ErrorMessage, outcome.StartedAt,
	)

	return err
}

// GetOutcomesSince retrieves run outcomes since a specific time
func (r *CollectionLogRepository) GetOutcomesSince(ctx context.Context, since time.Time) ([]collection.Outcome, error) {
	var outcomes []collection.Outcome

	query := `
		SELECT source, status, records_written, error_count,
		       duration_ms, error_message, started_at
		FROM collection_log
		WHERE started_at >= $1
		ORDER BY started_at DESC`

	err := r.db.SelectContext(ctx, &outcomes, query, since)
	if err != nil {
		return nil, err
	}

	return outcomes, nil
}
