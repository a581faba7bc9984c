package quality

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hypewatch/internal/domain/collection"
	"hypewatch/internal/domain/market"
)

func defaultAssessor() *Assessor {
	return NewAssessor(Options{
		MinRecords:       1,
		MaxNullRate:      0.05,
		MaxDuplicateRate: 0.02,
		MaxOutlierRate:   0.10,
	})
}

func forumRecord(id string, score int64) Record {
	return Record{
		FieldID:         id,
		FieldCoinSymbol: "DOGE",
		FieldAuthor:     "dogelover",
		FieldText:       "to the moon",
		FieldTimestamp:  time.Now(),
		FieldScore:      score,
	}
}

func TestAssess_CleanBatchIsExcellent(t *testing.T) {
	assessor := defaultAssessor()

	records := make([]Record, 0, 12)
	for i := 0; i < 12; i++ {
		records = append(records, forumRecord(fmt.Sprintf("t3_%d", i), int64(90+i)))
	}

	report := assessor.Assess(RecordForum, records)

	assert.Equal(t, 12, report.RecordCount)
	assert.Zero(t, report.NullRate)
	assert.Zero(t, report.DuplicateRate)
	assert.Zero(t, report.OutlierRate)
	assert.Equal(t, 100.0, report.Score)
	assert.Equal(t, TierExcellent, report.Tier)
	assert.Empty(t, report.Issues)
	assert.False(t, report.Tier.Degraded())
}

func TestAssess_EmptyBatchFails(t *testing.T) {
	assessor := defaultAssessor()

	report := assessor.Assess(RecordPrice, nil)

	assert.Zero(t, report.RecordCount)
	assert.Equal(t, 1.0, report.NullRate)
	assert.Zero(t, report.Score)
	assert.Equal(t, TierFailed, report.Tier)
	assert.True(t, report.Tier.Degraded())
	require.NotEmpty(t, report.Issues)
	assert.Equal(t, 0.0, report.FieldCompleteness[FieldPriceUSD])
}

func TestAssess_NullRateAndCompleteness(t *testing.T) {
	assessor := defaultAssessor()

	prices := []market.PriceRecord{
		{CoinSymbol: "DOGE", PriceUSD: decimal.NewFromFloat(0.21), Timestamp: time.Now()},
		{CoinSymbol: "PEPE", PriceUSD: decimal.NewFromFloat(0.000012), Timestamp: time.Now()},
		{CoinSymbol: "SHIB", Timestamp: time.Now()}, // missing price
		{CoinSymbol: "BTC", PriceUSD: decimal.NewFromInt(64000), Timestamp: time.Now()},
	}

	report := assessor.Assess(RecordPrice, PriceRecords(prices))

	// 1 null cell out of 4 records x 3 required fields
	assert.InDelta(t, 1.0/12.0, report.NullRate, 1e-9)
	assert.InDelta(t, 0.75, report.FieldCompleteness[FieldPriceUSD], 1e-9)
	assert.InDelta(t, 1.0, report.FieldCompleteness[FieldCoinSymbol], 1e-9)
	assert.Contains(t, report.Issues[0], "null rate")
}

func TestAssess_BlankAndZeroCountAsNull(t *testing.T) {
	assert.True(t, isNull(nil))
	assert.True(t, isNull(""))
	assert.True(t, isNull("   "))
	assert.True(t, isNull(0))
	assert.True(t, isNull(int64(0)))
	assert.True(t, isNull(0.0))
	assert.True(t, isNull(decimal.Zero))
	assert.True(t, isNull(time.Time{}))

	assert.False(t, isNull("x"))
	assert.False(t, isNull(int64(5)))
	assert.False(t, isNull(decimal.NewFromFloat(0.0001)))
	assert.False(t, isNull(time.Now()))
}

func TestAssess_DuplicateRateOnNaturalKey(t *testing.T) {
	assessor := defaultAssessor()

	records := []Record{
		forumRecord("t3_a", 10),
		forumRecord("t3_b", 20),
		forumRecord("t3_a", 99), // same id, different payload
		forumRecord("t3_c", 30),
	}

	report := assessor.Assess(RecordForum, records)

	assert.InDelta(t, 0.25, report.DuplicateRate, 1e-9)
	assert.Contains(t, report.Issues[0], "duplicate rate")
}

func TestAssess_PriceNaturalKeyIsSymbolAndTimestamp(t *testing.T) {
	assessor := defaultAssessor()

	now := time.Now()
	prices := []market.PriceRecord{
		{CoinSymbol: "DOGE", PriceUSD: decimal.NewFromFloat(0.21), Timestamp: now},
		{CoinSymbol: "DOGE", PriceUSD: decimal.NewFromFloat(0.22), Timestamp: now.Add(time.Minute)},
		{CoinSymbol: "DOGE", PriceUSD: decimal.NewFromFloat(0.21), Timestamp: now},
	}

	report := assessor.Assess(RecordPrice, PriceRecords(prices))

	assert.InDelta(t, 1.0/3.0, report.DuplicateRate, 1e-9)
}

func TestAssess_IQROutliers(t *testing.T) {
	assessor := defaultAssessor()

	records := make([]Record, 0, 12)
	for i := 0; i < 10; i++ {
		records = append(records, forumRecord(fmt.Sprintf("t3_%d", i), int64(90+i*2)))
	}
	records = append(records, forumRecord("t3_spike1", 10_000))
	records = append(records, forumRecord("t3_spike2", 12_000))

	report := assessor.Assess(RecordForum, records)

	assert.InDelta(t, 2.0/12.0, report.OutlierRate, 1e-9)
	assert.Contains(t, report.Issues[0], "outlier rate")
}

func TestAssess_IQRNeedsTenValues(t *testing.T) {
	assessor := defaultAssessor()

	// Same spike, but only nine values total
	records := make([]Record, 0, 9)
	for i := 0; i < 8; i++ {
		records = append(records, forumRecord(fmt.Sprintf("t3_%d", i), int64(90+i)))
	}
	records = append(records, forumRecord("t3_spike", 10_000))

	report := assessor.Assess(RecordForum, records)

	assert.Zero(t, report.OutlierRate)
}

func TestAssess_ZScoreOutliers(t *testing.T) {
	assessor := NewAssessor(Options{
		MinRecords:       1,
		MaxNullRate:      0.05,
		MaxDuplicateRate: 0.02,
		MaxOutlierRate:   0.10,
		Method:           OutlierZScore,
	})

	records := make([]Record, 0, 12)
	for i := 0; i < 11; i++ {
		records = append(records, forumRecord(fmt.Sprintf("t3_%d", i), 100))
	}
	records = append(records, forumRecord("t3_spike", 10_000))

	report := assessor.Assess(RecordForum, records)

	assert.InDelta(t, 1.0/12.0, report.OutlierRate, 1e-9)
}

func TestAssess_ZScoreConstantSeriesHasNoOutliers(t *testing.T) {
	assessor := NewAssessor(Options{Method: OutlierZScore})

	records := make([]Record, 0, 12)
	for i := 0; i < 12; i++ {
		records = append(records, forumRecord(fmt.Sprintf("t3_%d", i), 100))
	}

	report := assessor.Assess(RecordForum, records)

	assert.Zero(t, report.OutlierRate)
}

func TestAssess_LowVolumePenalty(t *testing.T) {
	assessor := NewAssessor(Options{MinRecords: 5})

	report := assessor.Assess(RecordForum, []Record{
		forumRecord("t3_a", 10),
		forumRecord("t3_b", 20),
	})

	assert.Equal(t, 70.0, report.Score)
	assert.Equal(t, TierAcceptable, report.Tier)
	assert.Contains(t, report.Issues[0], "low volume")
}

func TestAssess_ScoreNeverNegative(t *testing.T) {
	assessor := NewAssessor(Options{MinRecords: 100})

	// All nulls, all duplicates
	records := []Record{
		{FieldID: "", FieldCoinSymbol: "", FieldAuthor: "", FieldText: ""},
		{FieldID: "", FieldCoinSymbol: "", FieldAuthor: "", FieldText: ""},
		{FieldID: "", FieldCoinSymbol: "", FieldAuthor: "", FieldText: ""},
	}

	report := assessor.Assess(RecordForum, records)

	assert.Zero(t, report.Score)
	assert.Equal(t, TierFailed, report.Tier)
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		score float64
		tier  Tier
	}{
		{100, TierExcellent},
		{90, TierExcellent},
		{89.9, TierGood},
		{75, TierGood},
		{74.9, TierAcceptable},
		{50, TierAcceptable},
		{49.9, TierPoor},
		{25, TierPoor},
		{24.9, TierFailed},
		{0, TierFailed},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.tier, TierFor(tt.score), "score %.1f", tt.score)
	}
}

func TestSourceRecords_OutlierFieldPerType(t *testing.T) {
	items := []collection.SourceItem{
		{
			ID:           "v1",
			CoinSymbol:   "PEPE",
			AuthorHandle: "creator",
			Text:         "pepe to the moon",
			Engagement: map[string]int64{
				collection.EngagementViews: 48_000,
				collection.EngagementScore: 12,
			},
			CreatedAt: time.Now(),
		},
	}

	forum := SourceRecords(RecordForum, items)
	require.Len(t, forum, 1)
	assert.Equal(t, int64(12), forum[0][FieldScore])

	video := SourceRecords(RecordVideo, items)
	assert.Equal(t, int64(48_000), video[0][FieldViews])
}
