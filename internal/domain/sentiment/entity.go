package sentiment

import "time"

// Polarity classifies a compound sentiment score
type Polarity string

const (
	PolarityPositive Polarity = "positive"
	PolarityNegative Polarity = "negative"
	PolarityNeutral  Polarity = "neutral"
)

// HypeLevel classifies a 0-100 hype score into bands
type HypeLevel string

const (
	HypeNone     HypeLevel = "none"
	HypeLow      HypeLevel = "low"
	HypeModerate HypeLevel = "moderate"
	HypeHigh     HypeLevel = "high"
	HypeExtreme  HypeLevel = "extreme"
)

// ScoredText is the immutable per-text scoring result. It is derived purely
// from the input text; engagement boosting happens afterwards and produces a
// new value rather than mutating this one.
type ScoredText struct {
	Text        string
	Compound    float64 // -1 to 1
	Positive    float64
	Negative    float64
	Neutral     float64
	Hype        float64 // 0 to 100
	KeywordHits []string
	EmojiCount  int
}

// AggregateSentiment is one fused sentiment/quality signal per coin per
// source per collection cycle. This is the unit persisted and the unit
// consumed by downstream correlation analysis.
type AggregateSentiment struct {
	CoinSymbol        string    `ch:"coin_symbol"`
	Source            string    `ch:"source"`
	SentimentScore    float64   `ch:"sentiment_score"` // mean compound, -1 to 1
	SentimentPositive float64   `ch:"sentiment_positive"`
	SentimentNegative float64   `ch:"sentiment_negative"`
	SentimentNeutral  float64   `ch:"sentiment_neutral"`
	HypeScore         float64   `ch:"hype_score"`
	HypeKeywordCount  int64     `ch:"hype_keyword_count"`
	HypeEmojiCount    int64     `ch:"hype_emoji_count"`
	PostCount         int64     `ch:"post_count"`
	TotalEngagement   int64     `ch:"total_engagement"`
	Timestamp         time.Time `ch:"timestamp"`
}

// IsEmpty reports whether the aggregate was produced from zero items.
// Callers check this rather than relying on errors: an empty batch is a
// well-defined outcome, not a failure.
func (a AggregateSentiment) IsEmpty() bool {
	return a.PostCount == 0
}
