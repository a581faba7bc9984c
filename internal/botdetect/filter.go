package botdetect

import (
	"sort"

	"hypewatch/internal/domain/collection"
)

// FilterStats summarizes one filtering pass over a batch
type FilterStats struct {
	Total       int
	Accepted    int
	Rejected    int
	RejectedPct float64
	MeanScore   float64
	TopFlags    []FlagCount
}

// FlagCount is a flag with its occurrence count across a batch
type FlagCount struct {
	Flag  string
	Count int
}

// RiskBand buckets accounts by bot score
type RiskBand string

const (
	RiskLow    RiskBand = "low"    // score < 50
	RiskMedium RiskBand = "medium" // 50 <= score < 70
	RiskHigh   RiskBand = "high"   // score >= 70
)

// BandFor returns the risk band for a bot score
func BandFor(score float64) RiskBand {
	switch {
	case score >= 70:
		return RiskHigh
	case score >= 50:
		return RiskMedium
	default:
		return RiskLow
	}
}

const topFlagLimit = 5

// FilterBatch scores every item and splits the batch into accepted and
// rejected slices. Inputs are never mutated; both result slices are freshly
// allocated. Ordering of the input is preserved within each slice.
func (d *Detector) FilterBatch(platform Platform, items []collection.SourceItem) (accepted, rejected []collection.SourceItem, stats FilterStats) {
	stats.Total = len(items)
	if len(items) == 0 {
		return nil, nil, stats
	}

	flagCounts := make(map[string]int)
	var scoreSum float64

	for _, item := range items {
		verdict := d.Analyze(platform, item)
		scoreSum += verdict.Score
		for _, flag := range verdict.Flags {
			flagCounts[flag]++
		}
		if verdict.IsBot {
			rejected = append(rejected, item)
		} else {
			accepted = append(accepted, item)
		}
	}

	stats.Accepted = len(accepted)
	stats.Rejected = len(rejected)
	stats.RejectedPct = float64(stats.Rejected) / float64(stats.Total) * 100
	stats.MeanScore = scoreSum / float64(stats.Total)
	stats.TopFlags = topFlags(flagCounts, topFlagLimit)

	return accepted, rejected, stats
}

// BandDistribution scores a batch and counts accounts per risk band
func (d *Detector) BandDistribution(platform Platform, items []collection.SourceItem) map[RiskBand]int {
	dist := make(map[RiskBand]int, 3)
	for _, item := range items {
		verdict := d.Analyze(platform, item)
		dist[BandFor(verdict.Score)]++
	}
	return dist
}

func topFlags(counts map[string]int, limit int) []FlagCount {
	if len(counts) == 0 {
		return nil
	}
	ranked := make([]FlagCount, 0, len(counts))
	for flag, count := range counts {
		ranked = append(ranked, FlagCount{Flag: flag, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Flag < ranked[j].Flag
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
