package quality

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// Record is one row under assessment, keyed by field name. The assessor
// never mutates records.
type Record map[string]any

// RecordType is the closed set of batch shapes the assessor knows. Each type
// carries its own natural key, required fields, and outlier field.
type RecordType int

const (
	RecordPrice RecordType = iota
	RecordForum
	RecordVideo
)

func (rt RecordType) String() string {
	switch rt {
	case RecordPrice:
		return "price"
	case RecordForum:
		return "forum"
	case RecordVideo:
		return "video"
	default:
		return "unknown"
	}
}

// OutlierMethod selects the outlier detection algorithm
type OutlierMethod int

const (
	// OutlierIQR flags values outside 1.5 interquartile-range fences.
	// Robust to the skew typical of engagement counts.
	OutlierIQR OutlierMethod = iota
	// OutlierZScore flags values more than three standard deviations from
	// the mean. Cheaper, assumes roughly normal data.
	OutlierZScore
)

// Field names shared by the record specs
const (
	FieldID         = "id"
	FieldCoinSymbol = "coin_symbol"
	FieldAuthor     = "author"
	FieldText       = "text"
	FieldTimestamp  = "timestamp"
	FieldPriceUSD   = "price_usd"
	FieldMarketCap  = "market_cap"
	FieldVolume24h  = "volume_24h"
	FieldScore      = "score"
	FieldViews      = "views"
)

type recordSpec struct {
	naturalKey   []string
	required     []string
	outlierField string
}

var recordSpecs = map[RecordType]recordSpec{
	RecordPrice: {
		naturalKey:   []string{FieldCoinSymbol, FieldTimestamp},
		required:     []string{FieldCoinSymbol, FieldPriceUSD, FieldTimestamp},
		outlierField: FieldPriceUSD,
	},
	RecordForum: {
		naturalKey:   []string{FieldID},
		required:     []string{FieldID, FieldCoinSymbol, FieldAuthor, FieldText},
		outlierField: FieldScore,
	},
	RecordVideo: {
		naturalKey:   []string{FieldID},
		required:     []string{FieldID, FieldCoinSymbol, FieldAuthor, FieldText},
		outlierField: FieldViews,
	},
}

// Tier buckets a quality score
type Tier string

const (
	TierExcellent  Tier = "EXCELLENT"  // >= 90
	TierGood       Tier = "GOOD"       // >= 75
	TierAcceptable Tier = "ACCEPTABLE" // >= 50
	TierPoor       Tier = "POOR"       // >= 25
	TierFailed     Tier = "FAILED"
)

// TierFor maps a score to its tier
func TierFor(score float64) Tier {
	switch {
	case score >= 90:
		return TierExcellent
	case score >= 75:
		return TierGood
	case score >= 50:
		return TierAcceptable
	case score >= 25:
		return TierPoor
	default:
		return TierFailed
	}
}

// Degraded reports whether the tier should raise a warning
func (t Tier) Degraded() bool {
	return t == TierPoor || t == TierFailed
}

// Score penalty weights
const (
	nullPenalty       = 50
	duplicatePenalty  = 30
	outlierPenalty    = 20
	lowVolumePenalty  = 30
	minOutlierSamples = 10
	iqrFenceFactor    = 1.5
	zScoreLimit       = 3.0
)

// Report is the assessment of one batch. It is advisory: callers decide
// whether a degraded batch is still written.
type Report struct {
	RecordType        RecordType
	RecordCount       int
	NullRate          float64
	DuplicateRate     float64
	OutlierRate       float64
	FieldCompleteness map[string]float64
	Score             float64
	Tier              Tier
	Issues            []string
}

// Assessor computes batch quality reports. Thresholds beyond which an issue
// is raised are injected at construction.
type Assessor struct {
	minRecords     int
	maxNullRate    float64
	maxDupRate     float64
	maxOutlierRate float64
	method         OutlierMethod
}

// Options configures an Assessor
type Options struct {
	MinRecords       int
	MaxNullRate      float64
	MaxDuplicateRate float64
	MaxOutlierRate   float64
	Method           OutlierMethod
}

// NewAssessor creates an assessor with the given thresholds. A MinRecords of
// zero disables the low-volume penalty.
func NewAssessor(opts Options) *Assessor {
	return &Assessor{
		minRecords:     opts.MinRecords,
		maxNullRate:    opts.MaxNullRate,
		maxDupRate:     opts.MaxDuplicateRate,
		maxOutlierRate: opts.MaxOutlierRate,
		method:         opts.Method,
	}
}

// Assess scores one batch. It is pure and never errors: an empty batch
// produces a FAILED report with a full null rate rather than a division by
// zero.
func (a *Assessor) Assess(recordType RecordType, records []Record) Report {
	report := Report{
		RecordType:        recordType,
		RecordCount:       len(records),
		FieldCompleteness: make(map[string]float64),
	}

	spec := recordSpecs[recordType]

	if len(records) == 0 {
		report.NullRate = 1.0
		report.Tier = TierFailed
		report.Issues = append(report.Issues, "empty batch")
		for _, field := range spec.required {
			report.FieldCompleteness[field] = 0
		}
		return report
	}

	report.NullRate = a.nullRate(spec, records, report.FieldCompleteness)
	report.DuplicateRate = a.duplicateRate(spec, records)
	report.OutlierRate = a.outlierRate(spec, records)

	score := 100.0
	score -= nullPenalty * report.NullRate
	score -= duplicatePenalty * report.DuplicateRate
	score -= outlierPenalty * report.OutlierRate
	if a.minRecords > 0 && len(records) < a.minRecords {
		score -= lowVolumePenalty
		report.Issues = append(report.Issues,
			fmt.Sprintf("low volume: %d records, expected at least %d", len(records), a.minRecords))
	}
	report.Score = clamp(score, 0, 100)
	report.Tier = TierFor(report.Score)

	if report.NullRate > a.maxNullRate {
		report.Issues = append(report.Issues,
			fmt.Sprintf("null rate %.1f%% above limit", report.NullRate*100))
	}
	if report.DuplicateRate > a.maxDupRate {
		report.Issues = append(report.Issues,
			fmt.Sprintf("duplicate rate %.1f%% above limit", report.DuplicateRate*100))
	}
	if report.OutlierRate > a.maxOutlierRate {
		report.Issues = append(report.Issues,
			fmt.Sprintf("outlier rate %.1f%% above limit", report.OutlierRate*100))
	}

	return report
}

// nullRate is the fraction of null cells across every required field of
// every record; completeness collects the per-field complement.
func (a *Assessor) nullRate(spec recordSpec, records []Record, completeness map[string]float64) float64 {
	nullCells := 0
	for _, field := range spec.required {
		present := 0
		for _, record := range records {
			if isNull(record[field]) {
				nullCells++
			} else {
				present++
			}
		}
		completeness[field] = float64(present) / float64(len(records))
	}
	return float64(nullCells) / float64(len(records)*len(spec.required))
}

func (a *Assessor) duplicateRate(spec recordSpec, records []Record) float64 {
	seen := make(map[string]bool, len(records))
	duplicates := 0
	for _, record := range records {
		key := naturalKey(spec, record)
		if seen[key] {
			duplicates++
		}
		seen[key] = true
	}
	return float64(duplicates) / float64(len(records))
}

func (a *Assessor) outlierRate(spec recordSpec, records []Record) float64 {
	values := make([]float64, 0, len(records))
	for _, record := range records {
		if v, ok := toFloat(record[spec.outlierField]); ok {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return 0
	}

	var outliers int
	switch a.method {
	case OutlierZScore:
		outliers = zScoreOutliers(values)
	default:
		outliers = iqrOutliers(values)
	}
	return float64(outliers) / float64(len(values))
}

// iqrOutliers counts values outside the Tukey fences. Fewer than
// minOutlierSamples values gives quartiles too unstable to trust, so none
// are flagged.
func iqrOutliers(values []float64) int {
	if len(values) < minOutlierSamples {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	q1 := stat.Quantile(0.25, stat.Empirical, sorted, nil)
	q3 := stat.Quantile(0.75, stat.Empirical, sorted, nil)
	iqr := q3 - q1

	lower := q1 - iqrFenceFactor*iqr
	upper := q3 + iqrFenceFactor*iqr

	count := 0
	for _, v := range values {
		if v < lower || v > upper {
			count++
		}
	}
	return count
}

func zScoreOutliers(values []float64) int {
	mean, std := stat.MeanStdDev(values, nil)
	if std == 0 || math.IsNaN(std) {
		return 0
	}
	count := 0
	for _, v := range values {
		if math.Abs((v-mean)/std) > zScoreLimit {
			count++
		}
	}
	return count
}

func naturalKey(spec recordSpec, record Record) string {
	parts := make([]string, len(spec.naturalKey))
	for i, field := range spec.naturalKey {
		parts[i] = fmt.Sprintf("%v", record[field])
	}
	return strings.Join(parts, "|")
}

// isNull treats nil, empty strings, zero numbers, and zero times as missing
func isNull(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case int:
		return x == 0
	case int64:
		return x == 0
	case float64:
		return x == 0
	case decimal.Decimal:
		return x.IsZero()
	case time.Time:
		return x.IsZero()
	default:
		return false
	}
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		return x, true
	case decimal.Decimal:
		return x.InexactFloat64(), true
	default:
		return 0, false
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
