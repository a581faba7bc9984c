package collector

import (
	"context"
	"fmt"

	"hypewatch/internal/domain/market"
	"hypewatch/internal/metrics"
	"hypewatch/internal/quality"
	"hypewatch/pkg/logger"
)

// PriceSourceName labels the price pipeline in outcomes and metrics
const PriceSourceName = "price"

// PriceSource fetches price ticks for the whole coin universe in one call,
// assesses the batch, and persists tick by tick.
type PriceSource struct {
	coins    []string
	acquirer market.Acquirer
	assessor *quality.Assessor
	repo     market.Repository
	log      *logger.Logger
}

// NewPriceSource wires the price pipeline
func NewPriceSource(coins []string, acquirer market.Acquirer, assessor *quality.Assessor, repo market.Repository) *PriceSource {
	return &PriceSource{
		coins:    coins,
		acquirer: acquirer,
		assessor: assessor,
		repo:     repo,
		log:      logger.Get().With("source", PriceSourceName),
	}
}

// Name implements Source
func (s *PriceSource) Name() string {
	return PriceSourceName
}

// Collect implements Source. A tick that fails to insert is counted and the
// remaining ticks are still written.
func (s *PriceSource) Collect(ctx context.Context) (Result, error) {
	var result Result

	records, err := s.acquirer.Fetch(ctx, s.coins)
	if err != nil {
		return result, fmt.Errorf("fetch prices: %w", err)
	}

	report := s.assessor.Assess(quality.RecordPrice, quality.PriceRecords(records))
	metrics.QualityScore.WithLabelValues(PriceSourceName).Set(report.Score)
	if report.Tier.Degraded() {
		metrics.QualityDegradations.WithLabelValues(PriceSourceName, string(report.Tier)).Inc()
		result.Degradations = append(result.Degradations, QualityDegradation{
			Tier:   string(report.Tier),
			Score:  report.Score,
			Issues: report.Issues,
		})
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%s: quality %s (score %.0f)", PriceSourceName, report.Tier, report.Score))
	}

	for i := range records {
		if err := ctx.Err(); err != nil {
			result.ErrorCount += len(records) - i
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: cancelled mid-batch", PriceSourceName))
			return result, err
		}
		if err := s.repo.InsertPrice(ctx, &records[i]); err != nil {
			result.ErrorCount++
			s.log.Warnf("Price insert failed: coin=%s error=%v", records[i].CoinSymbol, err)
			continue
		}
		result.RecordsWritten++
	}

	if result.RecordsWritten == 0 && result.ErrorCount > 0 {
		return result, fmt.Errorf("no price ticks written, %d failures", result.ErrorCount)
	}
	return result, nil
}
