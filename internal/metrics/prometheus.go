package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Cycle metrics
	CycleExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hypewatch_cycle_executions_total",
			Help: "Total number of collection cycles",
		},
		[]string{"status"}, // status: success|partial|failed
	)

	CycleDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hypewatch_cycle_duration_seconds",
			Help:    "Full collection cycle duration in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	// Source metrics
	SourceExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hypewatch_source_executions_total",
			Help: "Total number of per-source collection runs",
		},
		[]string{"source", "status"}, // status: success|partial|failed
	)

	SourceDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hypewatch_source_duration_seconds",
			Help:    "Per-source collection duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"source"},
	)

	RecordsCollected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hypewatch_records_collected_total",
			Help: "Total records written per source",
		},
		[]string{"source"},
	)

	// Bot filter metrics
	BotRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hypewatch_bot_rejections_total",
			Help: "Total items rejected by the bot filter",
		},
		[]string{"source"},
	)

	// Quality metrics
	QualityScore = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hypewatch_quality_score",
			Help: "Latest batch quality score per source",
		},
		[]string{"source"},
	)

	QualityDegradations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hypewatch_quality_degradations_total",
			Help: "Batches assessed as POOR or FAILED",
		},
		[]string{"source", "tier"},
	)

	// Sentiment metrics
	AggregateHype = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hypewatch_aggregate_hype_score",
			Help: "Latest aggregate hype score per coin per source",
		},
		[]string{"coin", "source"},
	)
)

// Init registers all metrics with the default registry
func Init() {
	prometheus.MustRegister(CycleExecutions)
	prometheus.MustRegister(CycleDuration)

	prometheus.MustRegister(SourceExecutions)
	prometheus.MustRegister(SourceDuration)
	prometheus.MustRegister(RecordsCollected)

	prometheus.MustRegister(BotRejections)

	prometheus.MustRegister(QualityScore)
	prometheus.MustRegister(QualityDegradations)

	prometheus.MustRegister(AggregateHype)
}

// Handler returns Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordSourceRun records one per-source collection run
func RecordSourceRun(source, status string, duration time.Duration, records int) {
	SourceExecutions.WithLabelValues(source, status).Inc()
	SourceDuration.WithLabelValues(source).Observe(duration.Seconds())
	if records > 0 {
		RecordsCollected.WithLabelValues(source).Add(float64(records))
	}
}

// RecordCycle records one full collection cycle
func RecordCycle(status string, duration time.Duration) {
	CycleExecutions.WithLabelValues(status).Inc()
	CycleDuration.Observe(duration.Seconds())
}
