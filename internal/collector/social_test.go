package collector

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hypewatch/internal/botdetect"
	"hypewatch/internal/domain/collection"
	sentimentdomain "hypewatch/internal/domain/sentiment"
	"hypewatch/internal/quality"
	"hypewatch/internal/sentiment"
)

type fakeSocialAcquirer struct {
	items map[string][]collection.SourceItem
	errs  map[string]error
}

func (f *fakeSocialAcquirer) Fetch(ctx context.Context, coinSymbol string) ([]collection.SourceItem, error) {
	if err := f.errs[coinSymbol]; err != nil {
		return nil, err
	}
	return f.items[coinSymbol], nil
}

type fakeSentimentRepo struct {
	mu        sync.Mutex
	inserted  []sentimentdomain.AggregateSentiment
	insertErr error
}

func (f *fakeSentimentRepo) InsertAggregate(ctx context.Context, agg *sentimentdomain.AggregateSentiment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, *agg)
	return nil
}

func (f *fakeSentimentRepo) GetAggregatesSince(ctx context.Context, coinSymbol string, since time.Time) ([]sentimentdomain.AggregateSentiment, error) {
	return nil, nil
}

func (f *fakeSentimentRepo) GetLatestBySource(ctx context.Context, coinSymbol, source string) (*sentimentdomain.AggregateSentiment, error) {
	return nil, nil
}

func humanPost(handle, text string, score, comments int64) collection.SourceItem {
	return collection.SourceItem{
		ID:           "t3_" + handle,
		CoinSymbol:   "DOGE",
		AuthorHandle: handle,
		Text:         text,
		Engagement: map[string]int64{
			collection.EngagementScore:    score,
			collection.EngagementComments: comments,
			collection.EngagementKarma:    4000,
		},
		CreatedAt:        time.Now(),
		AccountCreatedAt: time.Now().Add(-300 * 24 * time.Hour),
	}
}

func botPost(handle string) collection.SourceItem {
	return collection.SourceItem{
		ID:           "t3_" + handle,
		CoinSymbol:   "DOGE",
		AuthorHandle: handle,
		Text:         "BUY NOW 🚀🚀🚀 dont miss",
		Engagement: map[string]int64{
			collection.EngagementScore: 1,
		},
		CreatedAt:        time.Now(),
		AccountCreatedAt: time.Now().Add(-24 * time.Hour),
	}
}

func newForumSource(acquirer collection.SocialAcquirer, repo sentimentdomain.Repository, coins ...string) *SocialSource {
	return NewSocialSource(
		SocialSourceConfig{
			Name:       "reddit",
			Coins:      coins,
			Platform:   botdetect.PlatformForum,
			RecordType: quality.RecordForum,
			BoostKind:  sentiment.BoostDiscussion,
		},
		acquirer,
		sentiment.NewAnalyzer(sentiment.DefaultLexicon()),
		botdetect.NewDetector(nil),
		quality.NewAssessor(quality.Options{MinRecords: 1, MaxNullRate: 0.05, MaxDuplicateRate: 0.02, MaxOutlierRate: 0.10}),
		repo,
	)
}

func TestSocialSource_BotsExcludedFromAggregate(t *testing.T) {
	handles := []string{"dogelover", "shiba_fan", "wow_much_coin", "hodler", "diamond_dan", "crypto_carl", "moonwatcher", "good_boy"}
	var items []collection.SourceItem
	for _, h := range handles {
		items = append(items, humanPost(h, "DOGE to the moon! 🚀", 10, 2))
	}
	items = append(items, botPost("abc482910"), botPost("xyz5819204"))

	repo := &fakeSentimentRepo{}
	source := newForumSource(&fakeSocialAcquirer{items: map[string][]collection.SourceItem{"DOGE": items}}, repo, "DOGE")

	result, err := source.Collect(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.RecordsWritten)
	require.Len(t, repo.inserted, 1)

	agg := repo.inserted[0]
	assert.Equal(t, "DOGE", agg.CoinSymbol)
	assert.Equal(t, "reddit", agg.Source)
	assert.Equal(t, int64(8), agg.PostCount) // 10 items, 2 bots filtered
	assert.Equal(t, int64(8*12), agg.TotalEngagement)
	assert.Greater(t, agg.HypeScore, 0.0)
}

func TestSocialSource_FailedCoinDoesNotStopOthers(t *testing.T) {
	repo := &fakeSentimentRepo{}
	acquirer := &fakeSocialAcquirer{
		items: map[string][]collection.SourceItem{
			"PEPE": {humanPost("frog_fan", "PEPE looking bullish", 25, 4)},
		},
		errs: map[string]error{"DOGE": errors.New("rate limited")},
	}
	source := newForumSource(acquirer, repo, "DOGE", "PEPE")

	result, err := source.Collect(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.RecordsWritten)
	assert.Equal(t, 1, result.ErrorCount)
	require.Len(t, repo.inserted, 1)
	assert.Equal(t, "PEPE", repo.inserted[0].CoinSymbol)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "rate limited")
}

func TestSocialSource_AllCoinsFailing(t *testing.T) {
	acquirer := &fakeSocialAcquirer{errs: map[string]error{
		"DOGE": errors.New("down"),
		"PEPE": errors.New("down"),
	}}
	source := newForumSource(acquirer, &fakeSentimentRepo{}, "DOGE", "PEPE")

	result, err := source.Collect(context.Background())

	require.Error(t, err)
	assert.Zero(t, result.RecordsWritten)
	assert.Equal(t, 2, result.ErrorCount)
}

func TestSocialSource_EmptyFetchStillWritesAggregate(t *testing.T) {
	// Zero posts is a legitimate observation, persisted as an empty aggregate
	repo := &fakeSentimentRepo{}
	source := newForumSource(&fakeSocialAcquirer{}, repo, "SHIB")

	result, err := source.Collect(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.RecordsWritten)
	require.Len(t, repo.inserted, 1)
	assert.True(t, repo.inserted[0].IsEmpty())
	assert.Equal(t, 1.0, repo.inserted[0].SentimentNeutral)

	// And the empty batch is flagged as degraded quality
	require.NotEmpty(t, result.Degradations)
	assert.Equal(t, "FAILED", result.Degradations[0].Tier)
}

func TestSocialSource_InsertFailureCounted(t *testing.T) {
	repo := &fakeSentimentRepo{insertErr: errors.New("clickhouse down")}
	acquirer := &fakeSocialAcquirer{items: map[string][]collection.SourceItem{
		"DOGE": {humanPost("dogelover", "nice", 5, 1)},
	}}
	source := newForumSource(acquirer, repo, "DOGE")

	result, err := source.Collect(context.Background())

	require.Error(t, err)
	assert.Zero(t, result.RecordsWritten)
	assert.Equal(t, 1, result.ErrorCount)
}

type slowSocialAcquirer struct {
	slow map[string]time.Duration
}

func (f *slowSocialAcquirer) Fetch(ctx context.Context, coinSymbol string) ([]collection.SourceItem, error) {
	if delay := f.slow[coinSymbol]; delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return []collection.SourceItem{humanPost("dogelover", "steady gains", 10, 2)}, nil
}

func TestSocialSource_SlowFetchExpiresWithoutStallingSiblings(t *testing.T) {
	repo := &fakeSentimentRepo{}
	source := NewSocialSource(
		SocialSourceConfig{
			Name:           "reddit",
			Coins:          []string{"DOGE", "PEPE"},
			Platform:       botdetect.PlatformForum,
			RecordType:     quality.RecordForum,
			BoostKind:      sentiment.BoostDiscussion,
			AcquireTimeout: 20 * time.Millisecond,
		},
		&slowSocialAcquirer{slow: map[string]time.Duration{"DOGE": time.Second}},
		sentiment.NewAnalyzer(sentiment.DefaultLexicon()),
		botdetect.NewDetector(nil),
		quality.NewAssessor(quality.Options{MinRecords: 1}),
		repo,
	)

	result, err := source.Collect(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.RecordsWritten)
	assert.Equal(t, 1, result.ErrorCount)
	require.Len(t, repo.inserted, 1)
	assert.Equal(t, "PEPE", repo.inserted[0].CoinSymbol)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], context.DeadlineExceeded.Error())
}

func TestSocialSource_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := newForumSource(&fakeSocialAcquirer{}, &fakeSentimentRepo{}, "DOGE", "PEPE")
	result, err := source.Collect(ctx)

	require.Error(t, err)
	assert.Zero(t, result.RecordsWritten)
	assert.Equal(t, 2, result.ErrorCount)
}

func TestSocialSource_VideoEngagementUsesViews(t *testing.T) {
	item := collection.SourceItem{
		ID:           "v1",
		CoinSymbol:   "PEPE",
		AuthorHandle: "frogclips",
		Text:         "pepe compilation",
		Engagement: map[string]int64{
			collection.EngagementViews:     500_000,
			collection.EngagementLikes:     40_000,
			collection.EngagementFollowers: 9_000,
			collection.EngagementFollowing: 400,
		},
		CreatedAt: time.Now(),
	}

	repo := &fakeSentimentRepo{}
	source := NewSocialSource(
		SocialSourceConfig{
			Name:       "tiktok",
			Coins:      []string{"PEPE"},
			Platform:   botdetect.PlatformVideo,
			RecordType: quality.RecordVideo,
			BoostKind:  sentiment.BoostVideo,
		},
		&fakeSocialAcquirer{items: map[string][]collection.SourceItem{"PEPE": {item}}},
		sentiment.NewAnalyzer(sentiment.DefaultLexicon()),
		botdetect.NewDetector(nil),
		quality.NewAssessor(quality.Options{MinRecords: 1}),
		repo,
	)

	result, err := source.Collect(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.RecordsWritten)
	require.Len(t, repo.inserted, 1)
	assert.Equal(t, int64(500_000), repo.inserted[0].TotalEngagement)
}
