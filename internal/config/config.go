package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "HEADLINES"

// Sentiment backends.
const (
	BackendFinBERT = "finbert"
	BackendLexicon = "lexicon"
)

// Config is the complete runtime configuration.
type Config struct {
	Log        LogConfig        `mapstructure:"log"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	Feed       FeedConfig       `mapstructure:"feed"`
	Countries  CountriesConfig  `mapstructure:"countries"`
	Page       PageConfig       `mapstructure:"page"`
	Sentiment  SentimentConfig  `mapstructure:"sentiment"`
	Publishers PublishersConfig `mapstructure:"publishers"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type FeedConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// CountriesConfig points at an optional registry file; empty means the built-in editions.
type CountriesConfig struct {
	File string `mapstructure:"file"`
}

type PageConfig struct {
	Size int `mapstructure:"size"`
}

type SentimentConfig struct {
	Backend  string        `mapstructure:"backend"`
	Endpoint string        `mapstructure:"endpoint"`
	APIToken string        `mapstructure:"api_token"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// PublishersConfig points at an optional publishers file; empty disables publishing.
type PublishersConfig struct {
	File string `mapstructure:"file"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// SetDefaults registers every key with its default so env overrides bind.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.shutdown_timeout", 10*time.Second)
	v.SetDefault("feed.base_url", "https://news.google.com/rss")
	v.SetDefault("feed.timeout", 15*time.Second)
	v.SetDefault("feed.user_agent", "")
	v.SetDefault("countries.file", "")
	v.SetDefault("page.size", 30)
	v.SetDefault("sentiment.backend", BackendFinBERT)
	v.SetDefault("sentiment.endpoint", "https://api-inference.huggingface.co/models/ProsusAI/finbert")
	v.SetDefault("sentiment.api_token", "")
	v.SetDefault("sentiment.timeout", 20*time.Second)
	v.SetDefault("publishers.file", "")
	v.SetDefault("metrics.enabled", true)
}

// New returns a viper instance with defaults and HEADLINES_* env binding.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads .env (if present), the optional config file, and the environment.
func Load(v *viper.Viper, file string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	if v == nil {
		v = New()
	}

	if file = strings.TrimSpace(file); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Sentiment.Backend = strings.ToLower(strings.TrimSpace(c.Sentiment.Backend))
	c.Feed.BaseURL = strings.TrimSpace(c.Feed.BaseURL)
	c.Countries.File = strings.TrimSpace(c.Countries.File)
	c.Publishers.File = strings.TrimSpace(c.Publishers.File)
}

// Validate checks values that would otherwise fail late.
func (c Config) Validate() error {
	if c.Page.Size <= 0 {
		return fmt.Errorf("page.size must be positive, got %d", c.Page.Size)
	}
	if c.Feed.Timeout <= 0 {
		return errors.New("feed.timeout must be positive")
	}
	if c.Sentiment.Timeout <= 0 {
		return errors.New("sentiment.timeout must be positive")
	}
	switch c.Sentiment.Backend {
	case BackendFinBERT:
		if strings.TrimSpace(c.Sentiment.Endpoint) == "" {
			return errors.New("sentiment.endpoint is required for the finbert backend")
		}
	case BackendLexicon:
	default:
		return fmt.Errorf("sentiment.backend %q not supported", c.Sentiment.Backend)
	}
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		return errors.New("http.addr is required")
	}
	return nil
}
