package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hypewatch/internal/acquire"
	"hypewatch/internal/adapters/clickhouse"
	"hypewatch/internal/adapters/config"
	"hypewatch/internal/adapters/errors/noop"
	"hypewatch/internal/adapters/errors/sentry"
	"hypewatch/internal/adapters/kafka"
	"hypewatch/internal/adapters/postgres"
	"hypewatch/internal/adapters/redis"
	"hypewatch/internal/botdetect"
	"hypewatch/internal/collector"
	"hypewatch/internal/domain/collection"
	sentimentdomain "hypewatch/internal/domain/sentiment"
	"hypewatch/internal/events"
	"hypewatch/internal/metrics"
	"hypewatch/internal/quality"
	"hypewatch/internal/sentiment"
	chrepo "hypewatch/internal/repository/clickhouse"
	pgrepo "hypewatch/internal/repository/postgres"
	redisrepo "hypewatch/internal/repository/redis"
	"hypewatch/pkg/errors"
	"hypewatch/pkg/logger"
)

const flushTimeout = 5 * time.Second

// Database bundles the storage connections
type Database struct {
	Postgres   *postgres.Client
	ClickHouse *clickhouse.Client
	Redis      *redis.Client
}

func (db *Database) Close() {
	_ = db.Postgres.Close()
	_ = db.ClickHouse.Close()
	_ = db.Redis.Close()
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get()
	log.Infof("Starting %s collector in %s mode", cfg.App.Name, cfg.App.Env)

	// Initialize error tracker
	errorTracker := initErrorTracker(cfg, log)
	logger.SetErrorTracker(errorTracker)

	// Initialize database connections
	db := initDatabases(cfg, log)
	defer db.Close()

	// Kafka producer for cycle events
	producer := kafka.NewProducer(kafka.ProducerConfig{Brokers: cfg.Kafka.Brokers})
	defer producer.Close()

	metrics.Init()
	if cfg.App.MetricsAddr != "" {
		startMetricsServer(cfg.App.MetricsAddr, log)
	}

	orchestrator := initOrchestrator(cfg, db, producer, log)

	// One cycle per invocation; scheduling belongs to cron or the deployment
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report := orchestrator.RunCycle(ctx)

	flushTracker(errorTracker, log)

	if report.OverallStatus == collection.StatusFailed {
		log.Errorf("Collection cycle failed: cycle_id=%s errors=%d", report.CycleID, report.TotalErrors)
		os.Exit(1)
	}
}

// initErrorTracker initializes error tracking (Sentry or no-op)
func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

// initDatabases initializes PostgreSQL, ClickHouse, and Redis connections
func initDatabases(cfg *config.Config, log *logger.Logger) *Database {
	pgClient, err := postgres.NewClient(cfg.Postgres)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}

	chClient, err := clickhouse.NewClient(cfg.ClickHouse)
	if err != nil {
		log.Fatalf("Failed to connect to ClickHouse: %v", err)
	}

	redisClient, err := redis.NewClient(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	log.Info("Databases initialized")
	return &Database{
		Postgres:   pgClient,
		ClickHouse: chClient,
		Redis:      redisClient,
	}
}

// initOrchestrator wires the collection sources and their collaborators.
// Prices come straight from CoinGecko; forum and video items come from the
// feed files the out-of-process scrapers maintain.
func initOrchestrator(cfg *config.Config, db *Database, producer *kafka.Producer, log *logger.Logger) *collector.Orchestrator {
	marketRepo := chrepo.NewMarketRepository(db.ClickHouse.Conn())
	sentimentRepo := chrepo.NewSentimentRepository(db.ClickHouse.Conn())
	runLog := pgrepo.NewCollectionLogRepository(db.Postgres.DB())
	cache := redisrepo.NewAggregateCache(db.Redis, cfg.Collector.CacheTTL)
	publisher := events.NewPublisher(producer, log)

	assessor := quality.NewAssessor(quality.Options{
		MinRecords:       cfg.Collector.MinRecords,
		MaxNullRate:      cfg.Collector.MaxNullRate,
		MaxDuplicateRate: cfg.Collector.MaxDuplicateRate,
		MaxOutlierRate:   cfg.Collector.MaxOutlierRate,
		Method:           quality.OutlierIQR,
	})

	coinGecko := acquire.NewCoinGecko(
		cfg.Collector.CoinGeckoBaseURL,
		cfg.Collector.AcquireTimeout,
		cfg.Collector.CoinGeckoRPS,
	)

	sources := []collector.Source{
		collector.NewPriceSource(cfg.Collector.AllCoins(), coinGecko, assessor, marketRepo),
	}
	sources = append(sources, socialSources(cfg.Collector, assessor, sentimentRepo)...)

	log.Infof("Collector initialized: sources=%d coins=%d", len(sources), len(cfg.Collector.AllCoins()))
	return collector.NewOrchestrator(sources, runLog, publisher, cache, db.Redis, cfg.Collector.CycleLockTTL)
}

// socialSources builds one social pipeline per configured feed file. The
// detector carries the per-platform bot thresholds; analyzer and assessor are
// shared across pipelines. Only tracked coins are collected socially, control
// coins ride along for price baselines alone.
func socialSources(cfg config.CollectorConfig, assessor *quality.Assessor, repo sentimentdomain.Repository) []collector.Source {
	detector := botdetect.NewDetector(map[botdetect.Platform]float64{
		botdetect.PlatformForum: cfg.ForumBotThreshold,
		botdetect.PlatformVideo: cfg.VideoBotThreshold,
	})
	analyzer := sentiment.NewAnalyzer(sentiment.DefaultLexicon())

	feeds := []struct {
		name       string
		path       string
		platform   botdetect.Platform
		recordType quality.RecordType
		boost      sentiment.BoostKind
	}{
		{"reddit", cfg.RedditFeedPath, botdetect.PlatformForum, quality.RecordForum, sentiment.BoostDiscussion},
		{"tiktok", cfg.TikTokFeedPath, botdetect.PlatformVideo, quality.RecordVideo, sentiment.BoostVideo},
	}

	var sources []collector.Source
	for _, feed := range feeds {
		if feed.path == "" {
			continue
		}
		sources = append(sources, collector.NewSocialSource(
			collector.SocialSourceConfig{
				Name:           feed.name,
				Coins:          cfg.Coins,
				Platform:       feed.platform,
				RecordType:     feed.recordType,
				BoostKind:      feed.boost,
				AcquireTimeout: cfg.AcquireTimeout,
			},
			acquire.NewSocialFeed(feed.path),
			analyzer,
			detector,
			assessor,
			repo,
		))
	}
	return sources
}

// startMetricsServer exposes Prometheus metrics for the duration of the cycle
func startMetricsServer(addr string, log *logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
			log.Warnf("Metrics server stopped: %v", err)
		}
	}()
	log.Infof("Metrics exposed on %s/metrics", addr)
}

func flushTracker(tracker errors.Tracker, log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	if err := tracker.Flush(ctx); err != nil {
		log.Warnf("Failed to flush error tracker: %v", err)
	}
}
