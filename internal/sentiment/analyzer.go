package sentiment

import (
	"strings"

	"github.com/jonreiter/govader"

	"hypewatch/internal/domain/sentiment"
)

// Classification thresholds on the compound score
const (
	positiveThreshold = 0.05
	negativeThreshold = -0.05
)

// Analyzer scores a single text for lexicon-based polarity and hype
// intensity. It is safe for concurrent use and never fails: degenerate input
// yields the neutral identity score.
type Analyzer struct {
	vader *govader.SentimentIntensityAnalyzer
	hype  *HypeScorer
}

// NewAnalyzer creates an analyzer with the given hype lexicon
func NewAnalyzer(lexicon Lexicon) *Analyzer {
	return &Analyzer{
		vader: govader.NewSentimentIntensityAnalyzer(),
		hype:  NewHypeScorer(lexicon),
	}
}

// Score produces the immutable per-text scoring result. Empty or blank text
// returns the neutral identity {compound 0, positive 0, negative 0, neutral 1}
// with zero hype.
func (a *Analyzer) Score(text string) sentiment.ScoredText {
	if strings.TrimSpace(text) == "" {
		return sentiment.ScoredText{Text: text, Neutral: 1.0}
	}

	polarity := a.vader.PolarityScores(text)
	hype := a.hype.Score(text)

	return sentiment.ScoredText{
		Text:        text,
		Compound:    polarity.Compound,
		Positive:    polarity.Positive,
		Negative:    polarity.Negative,
		Neutral:     polarity.Neutral,
		Hype:        hype.Score,
		KeywordHits: hype.KeywordHits,
		EmojiCount:  hype.EmojiCount,
	}
}

// Classify maps a compound score to a polarity class
func Classify(compound float64) sentiment.Polarity {
	switch {
	case compound >= positiveThreshold:
		return sentiment.PolarityPositive
	case compound <= negativeThreshold:
		return sentiment.PolarityNegative
	default:
		return sentiment.PolarityNeutral
	}
}

// ClassifyHype maps a 0-100 hype score to a band
func ClassifyHype(score float64) sentiment.HypeLevel {
	switch {
	case score >= 80:
		return sentiment.HypeExtreme
	case score >= 60:
		return sentiment.HypeHigh
	case score >= 40:
		return sentiment.HypeModerate
	case score >= 20:
		return sentiment.HypeLow
	default:
		return sentiment.HypeNone
	}
}
