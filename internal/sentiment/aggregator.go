package sentiment

import (
	"time"

	"hypewatch/internal/domain/sentiment"
)

// Aggregate reduces a batch of per-item scores into one summary record per
// coin per source. Empty input yields a well-defined zero record with
// PostCount 0; callers detect "no data" through IsEmpty, never through an
// error.
func Aggregate(scores []sentiment.ScoredText, coinSymbol, source string, totalEngagement int64) sentiment.AggregateSentiment {
	now := time.Now().UTC()

	if len(scores) == 0 {
		return sentiment.AggregateSentiment{
			CoinSymbol:       coinSymbol,
			Source:           source,
			SentimentNeutral: 1.0,
			Timestamp:        now,
		}
	}

	var sumCompound, sumPositive, sumNegative, sumNeutral, sumHype float64
	var keywordCount, emojiCount int64

	for _, s := range scores {
		sumCompound += s.Compound
		sumPositive += s.Positive
		sumNegative += s.Negative
		sumNeutral += s.Neutral
		sumHype += s.Hype
		keywordCount += int64(len(s.KeywordHits))
		emojiCount += int64(s.EmojiCount)
	}

	n := float64(len(scores))

	return sentiment.AggregateSentiment{
		CoinSymbol:        coinSymbol,
		Source:            source,
		SentimentScore:    sumCompound / n,
		SentimentPositive: sumPositive / n,
		SentimentNegative: sumNegative / n,
		SentimentNeutral:  sumNeutral / n,
		HypeScore:         sumHype / n,
		HypeKeywordCount:  keywordCount,
		HypeEmojiCount:    emojiCount,
		PostCount:         int64(len(scores)),
		TotalEngagement:   totalEngagement,
		Timestamp:         now,
	}
}
