package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"hypewatch/internal/domain/collection"
	"hypewatch/internal/events"
	"hypewatch/internal/metrics"
	"hypewatch/pkg/logger"
)

// cycleLockKey guards against overlapping cycles across processes
const cycleLockKey = "collection_cycle"

// Orchestrator runs all sources once per cycle and fuses their outcomes into
// a report. Failures never cross source boundaries and never reach the
// caller: the worst possible cycle is a report with OverallStatus failed.
type Orchestrator struct {
	sources   []Source
	runLog    collection.LogRepository
	publisher EventPublisher
	cache     AggregateCache
	locker    Locker
	lockTTL   time.Duration
	log       *logger.Logger
}

// NewOrchestrator wires a cycle orchestrator. Publisher, cache, and locker
// are optional; a nil collaborator disables that concern.
func NewOrchestrator(
	sources []Source,
	runLog collection.LogRepository,
	publisher EventPublisher,
	cache AggregateCache,
	locker Locker,
	lockTTL time.Duration,
) *Orchestrator {
	return &Orchestrator{
		sources:   sources,
		runLog:    runLog,
		publisher: publisher,
		cache:     cache,
		locker:    locker,
		lockTTL:   lockTTL,
		log:       logger.Get().With("component", "orchestrator"),
	}
}

// RunCycle executes one collection cycle. It never returns an error: every
// failure mode, including a panicking source, degrades into outcomes and
// warnings inside the report.
func (o *Orchestrator) RunCycle(ctx context.Context) collection.CycleReport {
	started := time.Now()
	report := collection.CycleReport{CycleID: uuid.NewString()}
	log := o.log.With("cycle_id", report.CycleID)

	if !o.acquireLock(ctx, log, &report) {
		report.OverallStatus = collection.StatusFailed
		report.DurationMs = time.Since(started).Milliseconds()
		return report
	}
	defer o.releaseLock(log)

	log.Infof("Collection cycle started: sources=%d", len(o.sources))

	outcomes := make([]collection.Outcome, len(o.sources))
	results := make([]Result, len(o.sources))

	var wg sync.WaitGroup
	for i, source := range o.sources {
		// Sources already in flight finish on their own; sources not yet
		// started are skipped once the context is done.
		if err := ctx.Err(); err != nil {
			outcomes[i] = collection.Outcome{
				Source:       source.Name(),
				Status:       collection.StatusFailed,
				ErrorMessage: fmt.Sprintf("not started: %v", err),
				StartedAt:    time.Now().UTC(),
			}
			continue
		}

		wg.Add(1)
		go func(i int, source Source) {
			defer wg.Done()
			outcomes[i], results[i] = o.runSource(ctx, source)
		}(i, source)
	}
	wg.Wait()

	for i := range outcomes {
		report.PerSource = append(report.PerSource, outcomes[i])
		report.TotalRecords += outcomes[i].RecordsWritten
		report.TotalErrors += outcomes[i].ErrorCount
		report.Warnings = append(report.Warnings, results[i].Warnings...)

		o.recordOutcome(ctx, log, report.CycleID, outcomes[i])
		o.publishDegradations(ctx, report.CycleID, outcomes[i].Source, results[i].Degradations)
		o.fanOutAggregates(ctx, log, report.CycleID, results[i])
	}

	report.OverallStatus = overallStatus(report.PerSource, report.TotalRecords)
	report.DurationMs = time.Since(started).Milliseconds()

	metrics.RecordCycle(string(report.OverallStatus), time.Since(started))
	o.publishCycle(ctx, log, report)

	log.Infof("Collection cycle finished: status=%s records=%s errors=%d duration=%s",
		report.OverallStatus,
		humanize.Comma(int64(report.TotalRecords)),
		report.TotalErrors,
		time.Since(started).Round(time.Millisecond))

	return report
}

// runSource executes one source with panic isolation
func (o *Orchestrator) runSource(ctx context.Context, source Source) (outcome collection.Outcome, result Result) {
	started := time.Now()
	outcome = collection.Outcome{
		Source:    source.Name(),
		StartedAt: started.UTC(),
	}

	defer func() {
		if r := recover(); r != nil {
			outcome.Status = collection.StatusFailed
			outcome.ErrorMessage = fmt.Sprintf("panic: %v", r)
			outcome.ErrorCount++
			o.log.Errorf("Source panicked: source=%s panic=%v", source.Name(), r)
		}
		outcome.DurationMs = time.Since(started).Milliseconds()
		metrics.RecordSourceRun(source.Name(), string(outcome.Status), time.Since(started), outcome.RecordsWritten)
	}()

	result, err := source.Collect(ctx)

	outcome.RecordsWritten = result.RecordsWritten
	outcome.ErrorCount = result.ErrorCount
	outcome.Status = sourceStatus(result, err)
	if err != nil {
		outcome.ErrorMessage = err.Error()
		if outcome.ErrorCount == 0 {
			outcome.ErrorCount = 1
		}
	}
	return outcome, result
}

// sourceStatus derives the three-tier status for one source run
func sourceStatus(result Result, err error) collection.Status {
	switch {
	case err == nil && result.ErrorCount == 0:
		return collection.StatusSuccess
	case result.RecordsWritten > 0:
		return collection.StatusPartial
	default:
		return collection.StatusFailed
	}
}

// overallStatus derives the cycle status: success only when every source
// succeeded, partial when anything at all was written, failed otherwise.
func overallStatus(outcomes []collection.Outcome, totalRecords int) collection.Status {
	allSuccess := len(outcomes) > 0
	for _, outcome := range outcomes {
		if outcome.Status != collection.StatusSuccess {
			allSuccess = false
			break
		}
	}

	switch {
	case allSuccess:
		return collection.StatusSuccess
	case totalRecords > 0:
		return collection.StatusPartial
	default:
		return collection.StatusFailed
	}
}

func (o *Orchestrator) acquireLock(ctx context.Context, log *logger.Logger, report *collection.CycleReport) bool {
	if o.locker == nil {
		return true
	}

	acquired, err := o.locker.AcquireLock(ctx, cycleLockKey, o.lockTTL)
	if err != nil {
		// Lock service being down should not stop collection
		log.Warnf("Cycle lock unavailable, proceeding without it: %v", err)
		report.Warnings = append(report.Warnings, fmt.Sprintf("cycle lock unavailable: %v", err))
		return true
	}
	if !acquired {
		log.Warnf("Previous collection cycle still holds the lock, skipping")
		report.Warnings = append(report.Warnings, "previous cycle still running")
		return false
	}
	return true
}

func (o *Orchestrator) releaseLock(log *logger.Logger) {
	if o.locker == nil {
		return
	}
	// Release with a fresh context so a cancelled cycle still unlocks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := o.locker.ReleaseLock(ctx, cycleLockKey); err != nil {
		log.Warnf("Failed to release cycle lock: %v", err)
	}
}

// recordOutcome appends to the run log and publishes the outcome event.
// Neither failing changes the cycle result.
func (o *Orchestrator) recordOutcome(ctx context.Context, log *logger.Logger, cycleID string, outcome collection.Outcome) {
	if o.runLog != nil {
		if err := o.runLog.AppendOutcome(ctx, &outcome); err != nil {
			log.Errorf("Failed to append run log: source=%s error=%v", outcome.Source, err)
		}
	}

	if o.publisher != nil {
		event := events.SourceOutcomeEvent{
			CycleID:        cycleID,
			Source:         outcome.Source,
			Status:         string(outcome.Status),
			RecordsWritten: outcome.RecordsWritten,
			ErrorCount:     outcome.ErrorCount,
			DurationMs:     outcome.DurationMs,
			ErrorMessage:   outcome.ErrorMessage,
			StartedAt:      outcome.StartedAt,
		}
		if err := o.publisher.PublishSourceOutcome(ctx, event); err != nil {
			log.Warnf("Failed to publish source outcome: source=%s error=%v", outcome.Source, err)
		}
	}
}

func (o *Orchestrator) publishDegradations(ctx context.Context, cycleID, source string, degradations []QualityDegradation) {
	if o.publisher == nil {
		return
	}
	for _, d := range degradations {
		event := events.QualityDegradedEvent{
			CycleID:    cycleID,
			Source:     source,
			CoinSymbol: d.CoinSymbol,
			Tier:       d.Tier,
			Score:      d.Score,
			Issues:     d.Issues,
			OccurredAt: time.Now().UTC(),
		}
		if err := o.publisher.PublishQualityDegraded(ctx, event); err != nil {
			o.log.Warnf("Failed to publish quality degradation: source=%s error=%v", source, err)
		}
	}
}

// fanOutAggregates caches each fresh aggregate and notifies downstream
// consumers. Both are best-effort.
func (o *Orchestrator) fanOutAggregates(ctx context.Context, log *logger.Logger, cycleID string, result Result) {
	for _, agg := range result.Aggregates {
		if o.cache != nil {
			if err := o.cache.StoreLatest(ctx, agg); err != nil {
				log.Warnf("Failed to cache aggregate: coin=%s source=%s error=%v", agg.CoinSymbol, agg.Source, err)
			}
		}

		if o.publisher != nil {
			event := events.AggregateUpdatedEvent{
				CycleID:         cycleID,
				CoinSymbol:      agg.CoinSymbol,
				Source:          agg.Source,
				SentimentScore:  agg.SentimentScore,
				HypeScore:       agg.HypeScore,
				PostCount:       agg.PostCount,
				TotalEngagement: agg.TotalEngagement,
				Timestamp:       agg.Timestamp,
			}
			if err := o.publisher.PublishAggregateUpdated(ctx, event); err != nil {
				log.Warnf("Failed to publish aggregate update: coin=%s source=%s error=%v", agg.CoinSymbol, agg.Source, err)
			}
		}
	}
}

func (o *Orchestrator) publishCycle(ctx context.Context, log *logger.Logger, report collection.CycleReport) {
	if o.publisher == nil {
		return
	}
	event := events.CycleCompletedEvent{
		CycleID:      report.CycleID,
		Status:       string(report.OverallStatus),
		TotalRecords: report.TotalRecords,
		TotalErrors:  report.TotalErrors,
		DurationMs:   report.DurationMs,
		Warnings:     report.Warnings,
		CompletedAt:  time.Now().UTC(),
	}
	if err := o.publisher.PublishCycleCompleted(ctx, event); err != nil {
		log.Warnf("Failed to publish cycle event: %v", err)
	}
}
