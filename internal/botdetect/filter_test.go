package botdetect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hypewatch/internal/domain/collection"
)

func TestFilterBatch_SplitsBotsFromHumans(t *testing.T) {
	detector := newTestDetector()

	humans := []collection.SourceItem{
		forumItem("dogelover", map[string]int64{
			collection.EngagementScore: 90,
			collection.EngagementKarma: 4000,
		}, 300*24*time.Hour),
		forumItem("shiba_maxi", map[string]int64{
			collection.EngagementScore: 31,
			collection.EngagementKarma: 880,
		}, 120*24*time.Hour),
	}
	bots := []collection.SourceItem{
		forumItem("abc482910", map[string]int64{
			collection.EngagementScore: 1,
		}, 24*time.Hour),
		forumItem("xy5819204", map[string]int64{
			collection.EngagementScore: 0,
		}, 48*time.Hour),
	}

	batch := append(append([]collection.SourceItem{}, humans...), bots...)
	accepted, rejected, stats := detector.FilterBatch(PlatformForum, batch)

	require.Len(t, accepted, 2)
	require.Len(t, rejected, 2)
	assert.Equal(t, "dogelover", accepted[0].AuthorHandle)
	assert.Equal(t, "shiba_maxi", accepted[1].AuthorHandle)
	assert.Equal(t, "abc482910", rejected[0].AuthorHandle)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Accepted)
	assert.Equal(t, 2, stats.Rejected)
	assert.InDelta(t, 50.0, stats.RejectedPct, 0.001)
	assert.Greater(t, stats.MeanScore, 0.0)
}

func TestFilterBatch_EmptyBatch(t *testing.T) {
	detector := newTestDetector()

	accepted, rejected, stats := detector.FilterBatch(PlatformForum, nil)

	assert.Nil(t, accepted)
	assert.Nil(t, rejected)
	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.MeanScore)
	assert.Empty(t, stats.TopFlags)
}

func TestFilterBatch_TopFlagsRankedAndCapped(t *testing.T) {
	detector := newTestDetector()

	var batch []collection.SourceItem
	// Six distinct flags in play: username, new account, low karma, low
	// engagement, round metrics on forum plus system accounts.
	for i := 0; i < 4; i++ {
		batch = append(batch, forumItem("abc482910", map[string]int64{
			collection.EngagementScore: 1,
		}, 24*time.Hour))
	}
	batch = append(batch, forumItem("quiet_lurker", map[string]int64{
		collection.EngagementScore: 20,
		collection.EngagementKarma: 2,
	}, 90*24*time.Hour))
	batch = append(batch, forumItem("[deleted]", nil, 0))
	batch = append(batch, forumItem("roundnum", map[string]int64{
		collection.EngagementScore:    2000,
		collection.EngagementComments: 1000,
		collection.EngagementKarma:    3000,
	}, 90*24*time.Hour))

	_, _, stats := detector.FilterBatch(PlatformForum, batch)

	require.Len(t, stats.TopFlags, 5)
	assert.Equal(t, FlagLowEngagement, stats.TopFlags[0].Flag)
	assert.Equal(t, 4, stats.TopFlags[0].Count)
	assert.Equal(t, FlagNewAccount, stats.TopFlags[1].Flag)
	for i := 1; i < len(stats.TopFlags); i++ {
		assert.GreaterOrEqual(t, stats.TopFlags[i-1].Count, stats.TopFlags[i].Count)
	}
}

func TestFilterBatch_DoesNotMutateInput(t *testing.T) {
	detector := newTestDetector()

	batch := []collection.SourceItem{
		forumItem("dogelover", map[string]int64{collection.EngagementScore: 90, collection.EngagementKarma: 4000}, 300*24*time.Hour),
		forumItem("abc482910", map[string]int64{collection.EngagementScore: 1}, 24*time.Hour),
	}
	before := make([]collection.SourceItem, len(batch))
	copy(before, batch)

	_, _, _ = detector.FilterBatch(PlatformForum, batch)

	for i := range batch {
		assert.Equal(t, before[i].AuthorHandle, batch[i].AuthorHandle)
		assert.Equal(t, before[i].Engagement, batch[i].Engagement)
	}
}

func TestBandDistribution(t *testing.T) {
	detector := newTestDetector()

	batch := []collection.SourceItem{
		forumItem("dogelover", map[string]int64{collection.EngagementScore: 90, collection.EngagementKarma: 4000}, 300*24*time.Hour), // 0 -> low
		forumItem("regular_guy", map[string]int64{collection.EngagementScore: 40, collection.EngagementKarma: 300}, 24*time.Hour),    // 30 -> low
		forumItem("trader4821", map[string]int64{collection.EngagementScore: 1, collection.EngagementKarma: 300}, 24*time.Hour),      // 60 -> medium
		forumItem("abc482910", map[string]int64{collection.EngagementScore: 1}, 24*time.Hour),                                        // 80 -> high
	}

	dist := detector.BandDistribution(PlatformForum, batch)

	assert.Equal(t, 2, dist[RiskLow])
	assert.Equal(t, 1, dist[RiskMedium])
	assert.Equal(t, 1, dist[RiskHigh])
}
