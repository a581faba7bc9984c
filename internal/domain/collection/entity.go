package collection

import "time"

// Engagement metric keys present in SourceItem.Engagement, depending on the
// platform the item came from.
const (
	EngagementScore     = "score"    // forum upvotes
	EngagementComments  = "comments" // forum comment count
	EngagementKarma     = "karma"    // forum account karma
	EngagementViews     = "views"
	EngagementLikes     = "likes"
	EngagementFollowers = "followers"
	EngagementFollowing = "following"
)

// SourceItem is one post or video caption handed over by an acquisition
// collaborator. The pipeline only reads it; scoring results are returned as
// separate values, never attached to the item.
type SourceItem struct {
	ID           string
	CoinSymbol   string
	AuthorHandle string
	Text         string
	Engagement   map[string]int64
	CreatedAt    time.Time

	// Account metadata, when the acquirer can provide it. A zero
	// AccountCreatedAt means unknown and skips age-based heuristics.
	AccountCreatedAt time.Time
}

// EngagementCount returns a metric by key, zero when absent.
func (s SourceItem) EngagementCount(key string) int64 {
	if s.Engagement == nil {
		return 0
	}
	return s.Engagement[key]
}

// Status is the three-tier outcome classification for a source run or a whole
// cycle. Downstream consumers must be able to distinguish "everything worked",
// "some data, degraded", and "nothing collected".
type Status string

const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusFailed  Status = "failed"
)

// Outcome is one immutable record per orchestrator run per source. It is only
// ever appended to the run log, never mutated.
type Outcome struct {
	Source         string    `db:"source"`
	Status         Status    `db:"status"`
	RecordsWritten int       `db:"records_written"`
	ErrorCount     int       `db:"error_count"`
	DurationMs     int64     `db:"duration_ms"`
	ErrorMessage   string    `db:"error_message"`
	StartedAt      time.Time `db:"started_at"`
}

// CycleReport summarises one full collection cycle across all sources.
// RunCycle always returns one; it never propagates an error to its caller.
type CycleReport struct {
	CycleID       string
	OverallStatus Status
	PerSource     []Outcome
	Warnings      []string
	TotalRecords  int
	TotalErrors   int
	DurationMs    int64
}
