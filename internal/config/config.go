package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"PatternScout/internal/model"
	"PatternScout/internal/timeframe"
	"PatternScout/pkg/errors"
)

// DefaultPath is read when CONFIG_PATH is not set.
const DefaultPath = "configs/config.yaml"

// Config holds all application configuration. YAML is the base layer;
// environment variables (optionally from .env) override it.
type Config struct {
	App        AppConfig        `yaml:"app" envconfig:"APP"`
	DataSource DataSourceConfig `yaml:"data_source" envconfig:"DATA_SOURCE"`
	Cache      CacheConfig      `yaml:"cache" envconfig:"REDIS"`
	Analyses   []model.Watch    `yaml:"analyses" ignored:"true"`
	Telegram   TelegramConfig   `yaml:"telegram" envconfig:"TELEGRAM"`
	Kafka      KafkaConfig      `yaml:"kafka" envconfig:"KAFKA"`
	Database   DatabaseConfig   `yaml:"database" envconfig:"DATABASE"`
	Metrics    MetricsConfig    `yaml:"metrics" envconfig:"METRICS"`
	Sentry     SentryConfig     `yaml:"sentry" envconfig:"SENTRY"`
	StateFile  string           `yaml:"state_file" envconfig:"STATE_FILE"`
	Proxy      string           `yaml:"proxy" envconfig:"HTTPS_PROXY"`
	RunOnStart bool             `yaml:"run_on_start" envconfig:"RUN_ON_START"`
}

type AppConfig struct {
	Env      string `yaml:"env" envconfig:"ENV"`
	LogLevel string `yaml:"log_level" envconfig:"LOG_LEVEL"`
}

type DataSourceConfig struct {
	Provider          string `yaml:"provider" envconfig:"PROVIDER"` // binance|yahoo|mock
	BaseURL           string `yaml:"base_url" envconfig:"BASE_URL"`
	RequestsPerMinute int    `yaml:"requests_per_minute" envconfig:"REQUESTS_PER_MINUTE"`
}

// CacheConfig enables the Redis candle cache when RedisAddr is set.
type CacheConfig struct {
	RedisAddr     string        `yaml:"redis_addr" envconfig:"ADDR"`
	RedisPassword string        `yaml:"redis_password" envconfig:"PASSWORD"`
	RedisDB       int           `yaml:"redis_db" envconfig:"DB"`
	TTL           time.Duration `yaml:"ttl" envconfig:"TTL"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token" envconfig:"BOT_TOKEN"`
	ChatID   string `yaml:"chat_id" envconfig:"CHAT_ID"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers" envconfig:"BROKERS"`
	Topic   string   `yaml:"topic" envconfig:"TOPIC"`
}

type DatabaseConfig struct {
	SQLitePath  string `yaml:"sqlite_path" envconfig:"SQLITE_PATH"`
	PostgresDSN string `yaml:"postgres_dsn" envconfig:"POSTGRES_DSN"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr" envconfig:"ADDR"`
}

type SentryConfig struct {
	DSN string `yaml:"dsn" envconfig:"DSN"`
}

// Path returns CONFIG_PATH or the default config location.
func Path() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return DefaultPath
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides and fills defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "read config")
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "parse config")
		}
	}

	// .env is optional and never overrides variables already set.
	_ = godotenv.Load()

	if err := envconfig.Process("", cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "development"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "binance"
	}
	if c.DataSource.RequestsPerMinute == 0 {
		c.DataSource.RequestsPerMinute = 1200
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = time.Minute
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "patternscout.signals"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/patternscout.db"
	}
	if c.StateFile == "" {
		c.StateFile = "data/notify_state.json"
	}
	for i := range c.Analyses {
		w := &c.Analyses[i]
		if w.Timerange == 0 {
			w.Timerange = 1
		}
		if w.Cron == "" {
			w.Cron = "0 0 * * * *"
		}
	}
}

var cronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Validate reports every problem found, not only the first.
func (c *Config) Validate() error {
	var errs errors.MultiError

	switch c.DataSource.Provider {
	case "binance", "yahoo", "mock":
	default:
		errs.Add(errors.NewValidationError("data_source.provider", "must be binance, yahoo or mock", c.DataSource.Provider))
	}
	if c.DataSource.RequestsPerMinute < 0 {
		errs.Add(errors.NewValidationError("data_source.requests_per_minute", "must not be negative", c.DataSource.RequestsPerMinute))
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == "" {
		errs.Add(errors.NewValidationError("telegram.chat_id", "is required with a bot token", ""))
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		errs.Add(errors.NewValidationError("kafka.topic", "is required with brokers", ""))
	}

	if len(c.Analyses) == 0 {
		errs.Add(errors.NewValidationError("analyses", "at least one analysis is required", nil))
	}
	seen := map[string]bool{}
	for i, w := range c.Analyses {
		field := fmt.Sprintf("analyses[%d]", i)
		if w.Name == "" {
			errs.Add(errors.NewValidationError(field+".name", "is required", ""))
		} else if seen[w.Name] {
			errs.Add(errors.NewValidationError(field+".name", "is duplicated", w.Name))
		}
		seen[w.Name] = true
		if w.Symbol == "" {
			errs.Add(errors.NewValidationError(field+".symbol", "is required", ""))
		}
		if _, err := timeframe.CalculateLimit(w.Timeframe, w.Timerange); err != nil {
			errs.Add(errors.NewValidationError(field+".timeframe", err.Error(), w.Timeframe))
		}
		if _, err := cronParser.Parse(w.Cron); err != nil {
			errs.Add(errors.NewValidationError(field+".cron", err.Error(), w.Cron))
		}
		if err := w.Analysis.Validate(); err != nil {
			errs.Add(errors.Wrap(err, field+".analysis"))
		}
	}
	return errs.ToError()
}
