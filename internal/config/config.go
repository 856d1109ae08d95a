package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/myblog/blog/internal/storage"
	"github.com/spf13/viper"
)

const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"
	BackendBadger = "badger"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	Store     StoreConfig
	Site      SiteConfig
	Mail      MailConfig
	RateLimit RateLimitConfig
	Storage   storage.MinIOConfig
	Export    ExportConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr is host:port, or empty when Redis is not configured.
func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	return r.Host + ":" + r.Port
}

type StoreConfig struct {
	Backend    string
	BadgerPath string
}

type SiteConfig struct {
	URL         string
	Title       string
	Description string
	PerPage     int
}

type MailConfig struct {
	From      string
	OutboxKey string
}

type RateLimitConfig struct {
	Enabled       bool
	UseRedis      bool
	RPS           float64
	Burst         int
	WindowSeconds int
}

type ExportConfig struct {
	Schedule string
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8000")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("SERVER_READ_TIMEOUT", 30)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	v.SetDefault("MONGODB_DATABASE", "blog")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("STORE_BACKEND", BackendMemory)
	v.SetDefault("BADGER_PATH", "data/blog")
	v.SetDefault("SITE_URL", "http://localhost:8000")
	v.SetDefault("SITE_TITLE", "My blog")
	v.SetDefault("SITE_DESCRIPTION", "New posts of my blog.")
	v.SetDefault("SITE_PER_PAGE", 3)
	v.SetDefault("MAIL_FROM", "admin@myblog.com")
	v.SetDefault("MAIL_OUTBOX_KEY", "blog:mail:outbox")
	v.SetDefault("RATE_LIMIT_ENABLED", false)
	v.SetDefault("RATE_LIMIT_USE_REDIS", false)
	v.SetDefault("RATE_LIMIT_RPS", 10.0)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)
	v.SetDefault("MINIO_BUCKET", "blog")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("EXPORT_SCHEDULE", "0 * * * *")

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("SERVER_PORT"),
			Host:         v.GetString("SERVER_HOST"),
			Environment:  v.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  time.Duration(v.GetInt("SERVER_READ_TIMEOUT")) * time.Second,
			WriteTimeout: time.Duration(v.GetInt("SERVER_WRITE_TIMEOUT")) * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:      v.GetString("MONGODB_URI"),
			Database: v.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Store: StoreConfig{
			Backend:    strings.ToLower(strings.TrimSpace(v.GetString("STORE_BACKEND"))),
			BadgerPath: v.GetString("BADGER_PATH"),
		},
		Site: SiteConfig{
			URL:         strings.TrimRight(v.GetString("SITE_URL"), "/"),
			Title:       v.GetString("SITE_TITLE"),
			Description: v.GetString("SITE_DESCRIPTION"),
			PerPage:     v.GetInt("SITE_PER_PAGE"),
		},
		Mail: MailConfig{
			From:      v.GetString("MAIL_FROM"),
			OutboxKey: v.GetString("MAIL_OUTBOX_KEY"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			UseRedis:      v.GetBool("RATE_LIMIT_USE_REDIS"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         v.GetInt("RATE_LIMIT_BURST"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Storage: storage.MinIOConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
			Bucket:    v.GetString("MINIO_BUCKET"),
			Prefix:    v.GetString("MINIO_PREFIX"),
		},
		Export: ExportConfig{
			Schedule: v.GetString("EXPORT_SCHEDULE"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks combinations that cannot work at runtime.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory:
	case BackendMongo:
		if c.MongoDB.URI == "" {
			return fmt.Errorf("config: STORE_BACKEND=mongo requires MONGODB_URI")
		}
	case BackendBadger:
		if c.Store.BadgerPath == "" {
			return fmt.Errorf("config: STORE_BACKEND=badger requires BADGER_PATH")
		}
	default:
		return fmt.Errorf("config: unknown STORE_BACKEND %q", c.Store.Backend)
	}
	if c.Site.PerPage <= 0 {
		return fmt.Errorf("config: SITE_PER_PAGE must be positive")
	}
	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst < 0) {
		return fmt.Errorf("config: invalid rate limit rps=%v burst=%d", c.RateLimit.RPS, c.RateLimit.Burst)
	}
	return nil
}
