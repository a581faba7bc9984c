package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHypeScorer_EmptyText(t *testing.T) {
	scorer := NewHypeScorer(DefaultLexicon())

	result := scorer.Score("")

	assert.Zero(t, result.Score)
	assert.Empty(t, result.KeywordHits)
	assert.Zero(t, result.EmojiCount)
}

func TestHypeScorer_NeutralText(t *testing.T) {
	scorer := NewHypeScorer(DefaultLexicon())

	result := scorer.Score("the network upgrade shipped on schedule yesterday")

	assert.Zero(t, result.Score)
}

func TestHypeScorer_SignalComposition(t *testing.T) {
	scorer := NewHypeScorer(DefaultLexicon())

	// 2 keywords (moon, to the moon) + 1 distinct emoji + 3 bangs + 3 caps words
	result := scorer.Score("TO THE MOON!!! 🚀🚀🚀")

	assert.Equal(t, 40.0, result.Score) // 20 + 5 + 9 + 6
	assert.ElementsMatch(t, []string{"moon", "to the moon"}, result.KeywordHits)
	assert.Equal(t, 1, result.EmojiCount)
}

func TestHypeScorer_KeywordComponentCapped(t *testing.T) {
	scorer := NewHypeScorer(DefaultLexicon())

	// 8 distinct keywords, but the keyword component is capped at 50
	result := scorer.Score("moon rocket lambo pump bullish gem fomo yolo")

	require.Len(t, result.KeywordHits, 8)
	assert.Equal(t, 50.0, result.Score)
}

func TestHypeScorer_ScoreNeverExceeds100(t *testing.T) {
	scorer := NewHypeScorer(DefaultLexicon())

	result := scorer.Score("MOON ROCKET LAMBO PUMP BULLISH GEM FOMO YOLO ALL IN 🚀🌙💎💰🔥 !!!!!")

	assert.Equal(t, 100.0, result.Score)
}

func TestHypeScorer_CaseInsensitiveKeywords(t *testing.T) {
	scorer := NewHypeScorer(DefaultLexicon())

	lower := scorer.Score("diamond hands")
	upper := scorer.Score("Diamond Hands")

	assert.Equal(t, lower.KeywordHits, upper.KeywordHits)
}

func TestHypeScorer_RepeatedEmojiCountsOnce(t *testing.T) {
	scorer := NewHypeScorer(DefaultLexicon())

	spam := scorer.Score("nice chart 📈📈📈📈📈📈")
	single := scorer.Score("nice chart 📈")

	assert.Equal(t, 1, spam.EmojiCount)
	assert.Equal(t, single.Score, spam.Score)
}

func TestHypeScorer_SingleLetterWordsAreNotCaps(t *testing.T) {
	scorer := NewHypeScorer(DefaultLexicon())

	// "I" alone must not count as a caps word
	result := scorer.Score("I bought a coin")

	assert.Zero(t, result.Score)
}

func TestHypeScorer_CustomLexicon(t *testing.T) {
	scorer := NewHypeScorer(Lexicon{
		Keywords: []string{"breakout"},
		Emojis:   []string{"📊"},
	})

	result := scorer.Score("breakout confirmed 📊 🚀")

	assert.Equal(t, []string{"breakout"}, result.KeywordHits)
	assert.Equal(t, 1, result.EmojiCount) // rocket is not in this lexicon
	assert.Equal(t, 15.0, result.Score)
}
