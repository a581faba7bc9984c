package collection

import (
	"context"
	"time"
)

// LogRepository is the append-only collection run log (PostgreSQL). Appends
// must be safe for concurrent source pipelines.
type LogRepository interface {
	AppendOutcome(ctx context.Context, outcome *Outcome) error
	GetOutcomesSince(ctx context.Context, since time.Time) ([]Outcome, error)
}

// SocialAcquirer fetches raw social items for one coin. Implementations live
// outside this core (scrapers, platform APIs); the pipeline treats a failed or
// timed-out call as a failed source run and moves on.
type SocialAcquirer interface {
	Fetch(ctx context.Context, coinSymbol string) ([]SourceItem, error)
}
