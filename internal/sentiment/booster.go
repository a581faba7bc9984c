package sentiment

import "hypewatch/internal/domain/sentiment"

// BoostKind selects the engagement multiplier curve for a source style
type BoostKind int

const (
	// BoostDiscussion weighs forum-style engagement (upvotes plus comments):
	// multiplier 1 + min(engagement/1000, 0.5), at most +50%.
	BoostDiscussion BoostKind = iota

	// BoostVideo weighs view counts: multiplier 1 + min(views/1e6, 1.0),
	// at most +100% for viral reach.
	BoostVideo
)

// Boost applies the engagement multiplier for the given kind to a scored
// text, returning a new value with the boosted hype clamped back to [0,100].
// The input is never mutated. Identical textual hype weighs more when
// amplified by real audience reach, but the cap keeps runaway viral outliers
// from dominating aggregates.
func Boost(kind BoostKind, scored sentiment.ScoredText, engagement int64) sentiment.ScoredText {
	boosted := scored
	boosted.Hype = clampScore(scored.Hype * Multiplier(kind, engagement))
	return boosted
}

// Multiplier returns the raw engagement multiplier for a kind. Monotonically
// non-decreasing in engagement and bounded.
func Multiplier(kind BoostKind, engagement int64) float64 {
	if engagement < 0 {
		engagement = 0
	}
	switch kind {
	case BoostVideo:
		return 1.0 + minFloat(float64(engagement)/1_000_000, 1.0)
	default:
		return 1.0 + minFloat(float64(engagement)/1000, 0.5)
	}
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > maxHypeScore {
		return maxHypeScore
	}
	return score
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
