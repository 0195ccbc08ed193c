package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("invalid configuration")

const (
	CheckpointBackendFile  = "file"
	CheckpointBackendRedis = "redis"
)

// Config holds the application configuration.
type Config struct {
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	ListingURL        string `mapstructure:"LISTING_URL"`
	ReviewURLTemplate string `mapstructure:"REVIEW_URL_TEMPLATE"`

	CatalogPath    string `mapstructure:"CATALOG_PATH"`
	ReviewsPath    string `mapstructure:"REVIEWS_PATH"`
	CheckpointPath string `mapstructure:"CHECKPOINT_PATH"`

	RequestTimeoutSeconds int     `mapstructure:"REQUEST_TIMEOUT_SECONDS"`
	RequestsPerSecond     float64 `mapstructure:"REQUESTS_PER_SECOND"`
	UserAgents            string  `mapstructure:"USER_AGENTS"`
	Proxies               string  `mapstructure:"PROXIES"`

	CheckpointBackend string `mapstructure:"CHECKPOINT_BACKEND"`
	RedisAddr         string `mapstructure:"REDIS_ADDR"`
	RedisPassword     string `mapstructure:"REDIS_PASSWORD"`
	RedisDB           int    `mapstructure:"REDIS_DB"`

	PostgresURL string `mapstructure:"POSTGRES_URL"`
	StatusAddr  string `mapstructure:"STATUS_ADDR"`
}

var defaults = map[string]any{
	"LOG_LEVEL":               "info",
	"LOG_FORMAT":              "json",
	"LISTING_URL":             "https://www.filmaffinity.com/en/topgen.php",
	"REVIEW_URL_TEMPLATE":     "https://www.filmaffinity.com/en/reviews/{page}/{id}.html",
	"CATALOG_PATH":            "films.csv",
	"REVIEWS_PATH":            "reviews.csv",
	"CHECKPOINT_PATH":         "checkpoint.txt",
	"REQUEST_TIMEOUT_SECONDS": 30,
	"REQUESTS_PER_SECOND":     0,
	"USER_AGENTS":             "",
	"PROXIES":                 "",
	"CHECKPOINT_BACKEND":      CheckpointBackendFile,
	"REDIS_ADDR":              "localhost:6379",
	"REDIS_PASSWORD":          "",
	"REDIS_DB":                0,
	"POSTGRES_URL":            "",
	"STATUS_ADDR":             "",
}

// Load reads configuration from an optional env file and the environment.
// An empty envFile means ".env".
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}

	v := viper.New()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	v.AutomaticEnv()

	// The env file is optional; production runs are configured purely through the environment.
	if err := v.ReadInConfig(); err != nil && !isMissingConfig(err) {
		return nil, fmt.Errorf("read %s: %w", envFile, err)
	}

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func isMissingConfig(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

// Validate checks the values that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	switch c.CheckpointBackend {
	case CheckpointBackendFile, CheckpointBackendRedis:
	default:
		return fmt.Errorf("%w: unknown CHECKPOINT_BACKEND %q", ErrInvalidConfig, c.CheckpointBackend)
	}
	if !strings.Contains(c.ReviewURLTemplate, "{id}") || !strings.Contains(c.ReviewURLTemplate, "{page}") {
		return fmt.Errorf("%w: REVIEW_URL_TEMPLATE must contain {id} and {page}", ErrInvalidConfig)
	}
	if c.ListingURL == "" {
		return fmt.Errorf("%w: LISTING_URL is required", ErrInvalidConfig)
	}
	if c.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("%w: REQUEST_TIMEOUT_SECONDS must be positive", ErrInvalidConfig)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: REQUESTS_PER_SECOND must not be negative", ErrInvalidConfig)
	}
	if c.CatalogPath == "" || c.ReviewsPath == "" {
		return fmt.Errorf("%w: CATALOG_PATH and REVIEWS_PATH are required", ErrInvalidConfig)
	}
	if c.CheckpointBackend == CheckpointBackendFile && c.CheckpointPath == "" {
		return fmt.Errorf("%w: CHECKPOINT_PATH is required for the file backend", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// UserAgentList splits USER_AGENTS on "|" since user agents contain commas.
func (c *Config) UserAgentList() []string {
	return splitList(c.UserAgents, "|")
}

func (c *Config) ProxyList() []string {
	return splitList(c.Proxies, ",")
}

func splitList(raw, sep string) []string {
	var out []string
	for _, part := range strings.Split(raw, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
