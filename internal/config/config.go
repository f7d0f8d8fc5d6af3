package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the hotzone service
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Feed     FeedConfig     `mapstructure:"feed"`
	Detector DetectorConfig `mapstructure:"detector"`
	Store    StoreConfig    `mapstructure:"store"`
	Alert    AlertConfig    `mapstructure:"alert"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// LoggingConfig holds log level and format
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DatabaseConfig holds the reference-store connection settings
type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
}

// PostgresConfig holds PostgreSQL connection settings. The reference
// database is read-only at runtime; only the universe map is loaded
// from it. Leave Host empty to load the map from ReferenceFile instead.
type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"sslmode"`
}

// ConnString builds a pgx connection string.
func (p PostgresConfig) ConnString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Database, p.SSLMode,
	)
}

// RedisConfig holds kill store configuration
type RedisConfig struct {
	URL      string `mapstructure:"url"`
	PoolSize int    `mapstructure:"pool_size"`
}

// FeedConfig holds feed and detail-source settings
type FeedConfig struct {
	URL           string        `mapstructure:"url"`
	DetailURL     string        `mapstructure:"detail_url"`
	PollInterval  time.Duration `mapstructure:"poll_interval"`
	FetchTimeout  time.Duration `mapstructure:"fetch_timeout"`
	DedupCapacity int           `mapstructure:"dedup_capacity"`
	ReferenceFile string        `mapstructure:"reference_file"`
}

// DetectorConfig holds hotspot detection parameters
type DetectorConfig struct {
	Window    time.Duration `mapstructure:"window"`
	Threshold int           `mapstructure:"threshold"`
	Capacity  int           `mapstructure:"capacity"`
}

// StoreConfig holds the retention windows
type StoreConfig struct {
	KillTTL    time.Duration `mapstructure:"kill_ttl"`
	CounterTTL time.Duration `mapstructure:"counter_ttl"`
	HotspotTTL time.Duration `mapstructure:"hotspot_ttl"`
}

// AlertConfig holds alert channel settings. Channel is "webhook",
// "nats", or "none".
type AlertConfig struct {
	Channel    string        `mapstructure:"channel"`
	WebhookURL string        `mapstructure:"webhook_url"`
	NATSURL    string        `mapstructure:"nats_url"`
	Subject    string        `mapstructure:"subject"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("database.postgres.host", "")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.user", "hotzone")
	v.SetDefault("database.postgres.password", "")
	v.SetDefault("database.postgres.database", "hotzone_sde")
	v.SetDefault("database.postgres.sslmode", "disable")

	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("feed.url", "https://feed.example.com")
	v.SetDefault("feed.detail_url", "https://esi.example.com")
	v.SetDefault("feed.poll_interval", "30s")
	v.SetDefault("feed.fetch_timeout", "10s")
	v.SetDefault("feed.dedup_capacity", 1000)
	v.SetDefault("feed.reference_file", "")

	v.SetDefault("detector.window", "300s")
	v.SetDefault("detector.threshold", 5)
	v.SetDefault("detector.capacity", 100)

	v.SetDefault("store.kill_ttl", "24h")
	v.SetDefault("store.counter_ttl", "24h")
	v.SetDefault("store.hotspot_ttl", "1h")

	v.SetDefault("alert.channel", "none")
	v.SetDefault("alert.webhook_url", "")
	v.SetDefault("alert.nats_url", "nats://localhost:4222")
	v.SetDefault("alert.subject", "")
	v.SetDefault("alert.timeout", "10s")

	// Read from config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables override file config
	v.SetEnvPrefix("HOTZONE")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
