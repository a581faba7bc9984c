package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"hypewatch/pkg/errors"
)

type Config struct {
	App           AppConfig
	Postgres      PostgresConfig
	ClickHouse    ClickHouseConfig
	Redis         RedisConfig
	Kafka         KafkaConfig
	ErrorTracking ErrorTrackingConfig
	Collector     CollectorConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"hypewatch"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`

	// MetricsAddr exposes /metrics while a cycle runs. Empty disables it.
	MetricsAddr string `envconfig:"METRICS_ADDR"`
}

type PostgresConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" required:"true"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" required:"true"`
	Password string `envconfig:"POSTGRES_PASSWORD" required:"true"`
	Database string `envconfig:"POSTGRES_DB" required:"true"`
	SSLMode  string `envconfig:"POSTGRES_SSL_MODE" default:"disable"`
	MaxConns int    `envconfig:"POSTGRES_MAX_CONNS" default:"25"`
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

type ClickHouseConfig struct {
	Host     string `envconfig:"CLICKHOUSE_HOST" required:"true"`
	Port     int    `envconfig:"CLICKHOUSE_PORT" default:"9000"`
	User     string `envconfig:"CLICKHOUSE_USER" default:"default"`
	Password string `envconfig:"CLICKHOUSE_PASSWORD"`
	Database string `envconfig:"CLICKHOUSE_DB" default:"hypewatch"`
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" required:"true"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type KafkaConfig struct {
	Brokers []string `envconfig:"KAFKA_BROKERS" required:"true"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"true"`
	Provider    string `envconfig:"ERROR_TRACKING_PROVIDER" default:"sentry"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// CollectorConfig holds the collection pipeline configuration: the tracked
// coin universe, acquisition limits, and the scoring/quality thresholds.
type CollectorConfig struct {
	// Tracked coin symbols. Control coins (BTC, ETH) ride along for baseline
	// comparison in downstream correlation analysis.
	Coins        []string `envconfig:"COLLECTOR_COINS" default:"DOGE,PEPE,SHIB"`
	ControlCoins []string `envconfig:"COLLECTOR_CONTROL_COINS" default:"BTC,ETH"`

	AcquireTimeout time.Duration `envconfig:"COLLECTOR_ACQUIRE_TIMEOUT" default:"30s"`
	CycleLockTTL   time.Duration `envconfig:"COLLECTOR_CYCLE_LOCK_TTL" default:"10m"`
	CacheTTL       time.Duration `envconfig:"COLLECTOR_CACHE_TTL" default:"1h"`

	// Authenticity thresholds, per platform. Items whose authenticity score
	// reaches the threshold are rejected from aggregation.
	ForumBotThreshold float64 `envconfig:"COLLECTOR_FORUM_BOT_THRESHOLD" default:"50"`
	VideoBotThreshold float64 `envconfig:"COLLECTOR_VIDEO_BOT_THRESHOLD" default:"50"`

	// Quality thresholds; advisory, reported but never blocking.
	MaxNullRate      float64 `envconfig:"COLLECTOR_MAX_NULL_RATE" default:"0.05"`
	MaxDuplicateRate float64 `envconfig:"COLLECTOR_MAX_DUPLICATE_RATE" default:"0.02"`
	MaxOutlierRate   float64 `envconfig:"COLLECTOR_MAX_OUTLIER_RATE" default:"0.10"`
	MinRecords       int     `envconfig:"COLLECTOR_MIN_RECORDS" default:"1"`

	// CoinGecko price acquisition.
	CoinGeckoBaseURL string  `envconfig:"COINGECKO_BASE_URL" default:"https://api.coingecko.com/api/v3"`
	CoinGeckoRPS     float64 `envconfig:"COINGECKO_RPS" default:"0.5"`

	// Social feed files written by the out-of-process scrapers, one item per
	// line. An empty path leaves that source unwired.
	RedditFeedPath string `envconfig:"COLLECTOR_REDDIT_FEED"`
	TikTokFeedPath string `envconfig:"COLLECTOR_TIKTOK_FEED"`
}

// AllCoins returns control coins followed by tracked coins, deduplicated.
func (c CollectorConfig) AllCoins() []string {
	seen := make(map[string]bool, len(c.ControlCoins)+len(c.Coins))
	all := make([]string, 0, len(c.ControlCoins)+len(c.Coins))
	for _, symbol := range append(append([]string{}, c.ControlCoins...), c.Coins...) {
		if !seen[symbol] {
			seen[symbol] = true
			all = append(all, symbol)
		}
	}
	return all
}

// Validate checks threshold sanity. A malformed threshold is fatal at startup,
// before any cycle runs.
func (c CollectorConfig) Validate() error {
	if c.ForumBotThreshold < 0 || c.ForumBotThreshold > 100 {
		return errors.Wrapf(errors.ErrConfigInvalid, "forum bot threshold %v outside [0,100]", c.ForumBotThreshold)
	}
	if c.VideoBotThreshold < 0 || c.VideoBotThreshold > 100 {
		return errors.Wrapf(errors.ErrConfigInvalid, "video bot threshold %v outside [0,100]", c.VideoBotThreshold)
	}
	for name, rate := range map[string]float64{
		"max null rate":      c.MaxNullRate,
		"max duplicate rate": c.MaxDuplicateRate,
		"max outlier rate":   c.MaxOutlierRate,
	} {
		if rate < 0 || rate > 1 {
			return errors.Wrapf(errors.ErrConfigInvalid, "%s %v outside [0,1]", name, rate)
		}
	}
	if c.MinRecords < 0 {
		return errors.Wrapf(errors.ErrConfigInvalid, "min records %d is negative", c.MinRecords)
	}
	if c.AcquireTimeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalid, "acquire timeout %v must be positive", c.AcquireTimeout)
	}
	if len(c.Coins) == 0 {
		return errors.Wrapf(errors.ErrConfigInvalid, "no coins configured")
	}
	return nil
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	if err := cfg.Collector.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
