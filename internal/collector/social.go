package collector

import (
	"context"
	"fmt"
	"time"

	"hypewatch/internal/botdetect"
	"hypewatch/internal/domain/collection"
	sentimentdomain "hypewatch/internal/domain/sentiment"
	"hypewatch/internal/metrics"
	"hypewatch/internal/quality"
	"hypewatch/internal/sentiment"
	"hypewatch/pkg/logger"
)

// SocialSourceConfig describes one social upstream
type SocialSourceConfig struct {
	// Name labels the source in outcomes, metrics and aggregates
	// (e.g. "reddit", "tiktok").
	Name string

	// Coins to collect per cycle
	Coins []string

	Platform   botdetect.Platform
	RecordType quality.RecordType
	BoostKind  sentiment.BoostKind

	// AcquireTimeout bounds each per-coin Fetch call. Zero means the cycle
	// context alone limits acquisition.
	AcquireTimeout time.Duration
}

// SocialSource is the pipeline for one social upstream: fetch, bot-filter,
// quality-assess, score, aggregate, persist. Per-coin failures are counted
// and the remaining coins still run.
type SocialSource struct {
	cfg      SocialSourceConfig
	acquirer collection.SocialAcquirer
	analyzer *sentiment.Analyzer
	detector *botdetect.Detector
	assessor *quality.Assessor
	repo     sentimentdomain.Repository
	log      *logger.Logger
}

// NewSocialSource wires one social pipeline
func NewSocialSource(
	cfg SocialSourceConfig,
	acquirer collection.SocialAcquirer,
	analyzer *sentiment.Analyzer,
	detector *botdetect.Detector,
	assessor *quality.Assessor,
	repo sentimentdomain.Repository,
) *SocialSource {
	return &SocialSource{
		cfg:      cfg,
		acquirer: acquirer,
		analyzer: analyzer,
		detector: detector,
		assessor: assessor,
		repo:     repo,
		log:      logger.Get().With("source", cfg.Name),
	}
}

// Name implements Source
func (s *SocialSource) Name() string {
	return s.cfg.Name
}

// Collect implements Source. One aggregate per coin is produced and written;
// a coin whose fetch or insert fails increments ErrorCount and the loop
// moves on.
func (s *SocialSource) Collect(ctx context.Context) (Result, error) {
	var result Result

	for i, coin := range s.cfg.Coins {
		if err := ctx.Err(); err != nil {
			result.ErrorCount += len(s.cfg.Coins) - i
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: cancelled before %s", s.cfg.Name, coin))
			return result, err
		}

		if err := s.collectCoin(ctx, coin, &result); err != nil {
			result.ErrorCount++
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s/%s: %v", s.cfg.Name, coin, err))
			s.log.Warnf("Coin collection failed: coin=%s error=%v", coin, err)
		}
	}

	if result.RecordsWritten == 0 && result.ErrorCount > 0 {
		return result, fmt.Errorf("no records collected for %d coins", result.ErrorCount)
	}
	return result, nil
}

func (s *SocialSource) collectCoin(ctx context.Context, coin string, result *Result) error {
	items, err := s.fetch(ctx, coin)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}

	accepted, _, stats := s.detector.FilterBatch(s.cfg.Platform, items)
	if stats.Rejected > 0 {
		metrics.BotRejections.WithLabelValues(s.cfg.Name).Add(float64(stats.Rejected))
		s.log.Debugf("Bot filter: coin=%s total=%d rejected=%d mean_score=%.1f",
			coin, stats.Total, stats.Rejected, stats.MeanScore)
	}

	report := s.assessor.Assess(s.cfg.RecordType, quality.SourceRecords(s.cfg.RecordType, accepted))
	metrics.QualityScore.WithLabelValues(s.cfg.Name).Set(report.Score)
	if report.Tier.Degraded() {
		metrics.QualityDegradations.WithLabelValues(s.cfg.Name, string(report.Tier)).Inc()
		result.Degradations = append(result.Degradations, QualityDegradation{
			CoinSymbol: coin,
			Tier:       string(report.Tier),
			Score:      report.Score,
			Issues:     report.Issues,
		})
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%s/%s: quality %s (score %.0f)", s.cfg.Name, coin, report.Tier, report.Score))
	}

	scores := make([]sentimentdomain.ScoredText, 0, len(accepted))
	var totalEngagement int64
	for _, item := range accepted {
		engagement := s.engagementOf(item)
		totalEngagement += engagement

		scored := s.analyzer.Score(item.Text)
		scores = append(scores, sentiment.Boost(s.cfg.BoostKind, scored, engagement))
	}

	agg := sentiment.Aggregate(scores, coin, s.cfg.Name, totalEngagement)
	if err := s.repo.InsertAggregate(ctx, &agg); err != nil {
		return fmt.Errorf("insert aggregate: %w", err)
	}

	metrics.AggregateHype.WithLabelValues(coin, s.cfg.Name).Set(agg.HypeScore)
	result.RecordsWritten++
	result.Aggregates = append(result.Aggregates, agg)
	return nil
}

// fetch calls the acquirer under the configured timeout. A hung upstream
// expires into a failed coin, it never stalls the whole cycle.
func (s *SocialSource) fetch(ctx context.Context, coin string) ([]collection.SourceItem, error) {
	if s.cfg.AcquireTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.AcquireTimeout)
		defer cancel()
	}
	return s.acquirer.Fetch(ctx, coin)
}

// engagementOf picks the engagement signal matching the boost curve
func (s *SocialSource) engagementOf(item collection.SourceItem) int64 {
	switch s.cfg.BoostKind {
	case sentiment.BoostVideo:
		return item.EngagementCount(collection.EngagementViews)
	default:
		return item.EngagementCount(collection.EngagementScore) +
			item.EngagementCount(collection.EngagementComments)
	}
}
