package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/artemshadrunov/currency-api/internal/adapters/transport"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	CacheBackendRedis  = "redis"
	CacheBackendMemory = "memory"
)

type HTTPServer struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type HTTPClient struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

type Logging struct {
	Level string `mapstructure:"level"`
}

type Redis struct {
	Addr         string `mapstructure:"addr"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	InstanceName string `mapstructure:"instance_name"`
}

type Cache struct {
	Backend               string `mapstructure:"backend"`
	DefaultExpirationDays int    `mapstructure:"default_expiration_days"`
	RetentionDays         int    `mapstructure:"retention_days"`
	MaxItems              int64  `mapstructure:"max_items"`
}

func (c Cache) DefaultTTL() time.Duration {
	return time.Duration(c.DefaultExpirationDays) * 24 * time.Hour
}

func (c Cache) RetentionTTL() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

type Frankfurter struct {
	BaseURL string `mapstructure:"base_url"`
}

type CurrencyRules struct {
	Excluded []string `mapstructure:"excluded"`
}

type Providers struct {
	StubEnabled bool `mapstructure:"stub_enabled"`
}

type AppConfig struct {
	HTTPServer    HTTPServer       `mapstructure:"http_server"`
	HTTPClient    HTTPClient       `mapstructure:"http_client"`
	Logging       Logging          `mapstructure:"logging"`
	Redis         Redis            `mapstructure:"redis"`
	Cache         Cache            `mapstructure:"cache"`
	Frankfurter   Frankfurter      `mapstructure:"frankfurter"`
	Resilience    transport.Policy `mapstructure:"resilience"`
	CurrencyRules CurrencyRules    `mapstructure:"currency_rules"`
	Providers     Providers        `mapstructure:"providers"`
}

func Init() (*AppConfig, error) {
	return InitFrom("config.yaml")
}

// InitFrom reads the YAML file at path. A missing .env file is not an error.
func InitFrom(path string) (*AppConfig, error) {
	var cfg AppConfig

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	policy := transport.DefaultPolicy()
	v.SetDefault("http_server.port", "8080")
	v.SetDefault("http_server.read_timeout", 5*time.Second)
	v.SetDefault("http_server.write_timeout", 15*time.Second)
	v.SetDefault("http_server.shutdown_timeout", 10*time.Second)
	v.SetDefault("http_client.timeout_seconds", 10)
	v.SetDefault("logging.level", "info")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.instance_name", "CurrencyConverter_")
	v.SetDefault("cache.backend", CacheBackendRedis)
	v.SetDefault("cache.default_expiration_days", 1)
	v.SetDefault("cache.retention_days", 30)
	v.SetDefault("cache.max_items", 100_000)
	v.SetDefault("frankfurter.base_url", "https://api.frankfurter.app")
	v.SetDefault("resilience.max_retries", policy.MaxRetries)
	v.SetDefault("resilience.base_delay", policy.BaseDelay)
	v.SetDefault("resilience.failure_threshold", policy.FailureThreshold)
	v.SetDefault("resilience.break_duration", policy.BreakDuration)
	v.SetDefault("providers.stub_enabled", false)

	// http server env vars
	_ = v.BindEnv("http_server.port", "HTTP_PORT")

	// redis env vars
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("redis.db", "REDIS_DB")

	// misc
	_ = v.BindEnv("logging.level", "LOG_LEVEL")
	_ = v.BindEnv("cache.backend", "CACHE_BACKEND")
	_ = v.BindEnv("frankfurter.base_url", "FRANKFURTER_BASE_URL")
	_ = v.BindEnv("http_client.timeout_seconds", "HTTP_CLIENT_TIMEOUT_SECONDS")

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) validate() error {
	switch c.Cache.Backend {
	case CacheBackendRedis, CacheBackendMemory:
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.DefaultExpirationDays <= 0 || c.Cache.RetentionDays <= 0 {
		return errors.New("cache expiration and retention days must be positive")
	}
	if c.Resilience.BaseDelay <= 0 || c.Resilience.BreakDuration <= 0 || c.Resilience.FailureThreshold == 0 {
		return errors.New("resilience base_delay, break_duration and failure_threshold must be positive")
	}
	if c.HTTPServer.ShutdownTimeout <= 0 {
		return errors.New("http_server.shutdown_timeout must be positive")
	}
	return nil
}
