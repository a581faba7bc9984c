package sentiment

import (
	"strings"
	"unicode"
)

// Signal weights and caps. Each signal is capped before summation so no
// single signal can dominate the final score.
const (
	keywordWeight = 10
	keywordCap    = 50
	emojiWeight   = 5
	emojiCap      = 25
	bangWeight    = 3
	bangCap       = 15
	capsWeight    = 2
	capsCap       = 10

	maxHypeScore = 100
)

// Lexicon is the immutable keyword/emoji configuration for hype scoring.
// It is constructed once and injected; scorers never reach for global state.
type Lexicon struct {
	Keywords []string
	Emojis   []string
}

// DefaultLexicon returns the promotional/FOMO phrase list tuned for meme coin
// chatter.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Keywords: []string{
			"moon", "rocket", "lambo", "wen", "pump", "bullish", "gem",
			"x100", "x10", "mooning", "rocketship", "millionaire",
			"buy now", "dont miss", "don't miss", "last chance", "fomo", "all in",
			"to the moon", "lfg", "lets go", "let's go", "hodl", "diamond hands",
			"paper hands", "ape", "yolo", "wagmi", "ngmi", "gm", "probably nothing",
		},
		Emojis: []string{
			"🚀", "🌙", "💎", "🙌", "💰", "🔥", "📈", "💪", "🐕", "🐸", "⚡", "💯", "🤑", "🎯",
		},
	}
}

// HypeResult carries the bounded intensity score plus the evidence behind it.
// Matched keywords feed later lexicon-improvement analysis.
type HypeResult struct {
	Score       float64 // 0 to 100
	KeywordHits []string
	EmojiCount  int
}

// HypeScorer computes a bounded 0-100 intensity score from keyword, emoji,
// exclamation and capitalization signals. Deterministic, no failure mode.
type HypeScorer struct {
	lexicon Lexicon
}

// NewHypeScorer creates a scorer over the given lexicon
func NewHypeScorer(lexicon Lexicon) *HypeScorer {
	return &HypeScorer{lexicon: lexicon}
}

// Score computes the hype intensity for a text. Empty text scores zero.
func (h *HypeScorer) Score(text string) HypeResult {
	if text == "" {
		return HypeResult{}
	}

	lower := strings.ToLower(text)

	var hits []string
	for _, keyword := range h.lexicon.Keywords {
		if strings.Contains(lower, keyword) {
			hits = append(hits, keyword)
		}
	}

	// Each lexicon emoji counts once per text, no matter how often it repeats
	emojiCount := 0
	for _, emoji := range h.lexicon.Emojis {
		if strings.Contains(text, emoji) {
			emojiCount++
		}
	}

	bangCount := strings.Count(text, "!")

	capsCount := 0
	for _, word := range strings.Fields(text) {
		if len([]rune(word)) > 1 && isAllUpper(word) {
			capsCount++
		}
	}

	total := capped(len(hits)*keywordWeight, keywordCap) +
		capped(emojiCount*emojiWeight, emojiCap) +
		capped(bangCount*bangWeight, bangCap) +
		capped(capsCount*capsWeight, capsCap)

	return HypeResult{
		Score:       float64(min(total, maxHypeScore)),
		KeywordHits: hits,
		EmojiCount:  emojiCount,
	}
}

func capped(value, cap int) int {
	if value > cap {
		return cap
	}
	return value
}

// isAllUpper reports whether a word consists of letters that are all
// uppercase. Words without any letter (numbers, emoji) do not count.
func isAllUpper(word string) bool {
	hasLetter := false
	for _, r := range word {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}
