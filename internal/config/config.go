package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	StoreBackendMemory   = "memory"
	StoreBackendRedis    = "redis"
	StoreBackendPostgres = "postgres"
	StoreBackendSqlite   = "sqlite"
)

type Config struct {
	Host        string
	Port        int
	Environment string
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// store
	StoreBackend         string `toml:"store_backend"`
	StoreCacheEnabled    bool   `toml:"store_cache_enabled"`
	StoreCacheSizeMB     int    `toml:"store_cache_size_mb"`
	StoreCacheTTLSeconds int    `toml:"store_cache_ttl_seconds"`
	SeedDemoData         bool   `toml:"seed_demo_data"`
	SqlitePath           string `toml:"sqlite_path"`
	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// auth
	LoginRateLimitAllowedPerMin int `toml:"login_rate_limit_allowed_per_min"`
	AuthDelayMs                 int `toml:"auth_delay_ms"`
	BcryptCost                  int `toml:"bcrypt_cost"`
	SessionTTLHours             int `toml:"session_ttl_hours"`
	// gamification
	Timezone string `toml:"timezone"`
	// events
	KafkaEnabled bool     `toml:"kafka_enabled"`
	KafkaBrokers []string `toml:"kafka_brokers"`
	KafkaTopic   string   `toml:"kafka_topic"`
	// http
	AllowedOrigins          []string `toml:"allowed_origins"`
	HoneycombTracingEnabled bool     `toml:"honeycomb_tracing_enabled"`
}

func (c *Config) AuthDelay() time.Duration {
	if c.AuthDelayMs < 0 {
		return 0
	}
	return time.Duration(c.AuthDelayMs) * time.Millisecond
}

func (c *Config) SessionTTL() time.Duration {
	if c.SessionTTLHours <= 0 {
		return 24 * 7 * time.Hour
	}
	return time.Duration(c.SessionTTLHours) * time.Hour
}

func (c *Config) StoreCacheTTL() time.Duration {
	return time.Duration(c.StoreCacheTTLSeconds) * time.Second
}

// Location resolves the timezone used for calendar-day (streak) comparisons.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case StoreBackendMemory, StoreBackendRedis, StoreBackendPostgres, StoreBackendSqlite:
	case "":
		c.StoreBackend = StoreBackendMemory
	default:
		return fmt.Errorf("unknown store backend: %s", c.StoreBackend)
	}
	if c.StoreBackend == StoreBackendSqlite && c.SqlitePath == "" {
		return fmt.Errorf("sqlite store backend requires sqlite_path")
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("kafka enabled, but no brokers set")
	}
	if c.KafkaTopic == "" {
		c.KafkaTopic = "fitgam.events"
	}
	if c.StoreCacheSizeMB <= 0 {
		c.StoreCacheSizeMB = 8
	}
	return nil
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	if cfg.Environment == "" {
		cfg.Environment = strings.ToLower(env)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", env, err)
	}
	return cfg, nil
}

func Load(env, path string) (*Config, error) {
	var tomlConfig Toml
	if _, err := toml.DecodeFile(path, &tomlConfig); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}
	return tomlConfig.Get(env)
}
