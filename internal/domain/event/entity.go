package event

import (
	"time"

	"github.com/google/uuid"
)

// Category classifies a manually logged market event
type Category string

const (
	CategoryExchangeListing   Category = "exchange_listing"
	CategoryInfluencerMention Category = "influencer_mention"
	CategoryNewsMajor         Category = "news_major"
	CategoryNewsMinor         Category = "news_minor"
	CategoryRegulatory        Category = "regulatory"
	CategoryTechnical         Category = "technical"
	CategorySocialCampaign    Category = "social_campaign"
	CategoryPartnership       Category = "partnership"
	CategoryWhaleActivity     Category = "whale_activity"
	CategoryOther             Category = "other"
)

// Categories lists all valid event categories
var Categories = []Category{
	CategoryExchangeListing,
	CategoryInfluencerMention,
	CategoryNewsMajor,
	CategoryNewsMinor,
	CategoryRegulatory,
	CategoryTechnical,
	CategorySocialCampaign,
	CategoryPartnership,
	CategoryWhaleActivity,
	CategoryOther,
}

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// MarketEvent is a manually logged event (listing, influencer mention, ...)
// kept for correlation with price and sentiment changes. CoinSymbol "ALL"
// marks market-wide events.
type MarketEvent struct {
	ID          uuid.UUID `db:"id"`
	CoinSymbol  string    `db:"coin_symbol"`
	Category    Category  `db:"category"`
	Description string    `db:"description"`
	Sentiment   string    `db:"sentiment"`    // positive, negative, neutral
	ImpactScore float64   `db:"impact_score"` // 1-10
	Source      string    `db:"source"`
	URL         string    `db:"url"`
	Timestamp   time.Time `db:"timestamp"`
	CreatedAt   time.Time `db:"created_at"`
}

// Stats summarises logged events for operator review
type Stats struct {
	TotalEvents     int
	AvgImpact       float64
	HighImpactCount int // impact >= 7
	ByCategory      map[Category]int
	BySentiment     map[string]int
}
