// Package config loads and validates leetstats configuration via Viper.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/JakeFAU/leetstats/internal/tracker"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Logging LoggingConfig   `mapstructure:"logging"`
	Problem tracker.Problem `mapstructure:"problem"`
	HTTP    HTTPConfig      `mapstructure:"http"`
	Archive ArchiveConfig   `mapstructure:"archive"`
	Live    LiveConfig      `mapstructure:"live"`
	Store   StoreConfig     `mapstructure:"store"`
	Metrics MetricsConfig   `mapstructure:"metrics"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// HTTPConfig configures the archive HTTP client.
type HTTPConfig struct {
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	UserAgent      string `mapstructure:"user_agent"`
	MaxBodyBytes   int    `mapstructure:"max_body_bytes"`
}

// ArchiveConfig describes the archive service and the harvested resource.
type ArchiveConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	TargetURL      string        `mapstructure:"target_url"`
	PageURL        string        `mapstructure:"page_url"`
	APIEndpoints   []string      `mapstructure:"api_endpoints"`
	Delay          time.Duration `mapstructure:"delay"`
	LookbackMonths int           `mapstructure:"lookback_months"`
}

// LiveConfig describes the live GraphQL endpoint.
type LiveConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	Path      string `mapstructure:"path"`
	UserAgent string `mapstructure:"user_agent"`
	// Timezone picks the calendar day used as today's record key; empty
	// means the host's local zone.
	Timezone string `mapstructure:"timezone"`
}

// StoreConfig sets where the record store is persisted.
type StoreConfig struct {
	Path      string `mapstructure:"path"`
	GCSBucket string `mapstructure:"gcs_bucket"`
	GCSObject string `mapstructure:"gcs_object"`
}

// MetricsConfig controls the Prometheus text-file export.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LEETSTATS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.development", true)
	v.SetDefault("logging.level", "")
	v.SetDefault("problem.id", "1")
	v.SetDefault("problem.title", "Two Sum")
	v.SetDefault("problem.slug", "two-sum")
	v.SetDefault("http.timeout_seconds", 30)
	v.SetDefault("http.user_agent", "Mozilla/5.0")
	v.SetDefault("http.max_body_bytes", 32*1024*1024)
	v.SetDefault("archive.base_url", "https://web.archive.org")
	v.SetDefault("archive.target_url", "leetcode.com/problems/two-sum")
	v.SetDefault("archive.page_url", "https://leetcode.com/problems/two-sum/")
	v.SetDefault("archive.api_endpoints", []string{
		"https://leetcode.com/api/problems/algorithms/",
		"https://leetcode.com/api/problems/all/",
	})
	v.SetDefault("archive.delay", "2s")
	v.SetDefault("archive.lookback_months", 12)
	v.SetDefault("live.base_url", "https://leetcode.com")
	v.SetDefault("live.path", "/graphql")
	v.SetDefault("live.user_agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
	v.SetDefault("live.timezone", "")
	v.SetDefault("store.path", "data/stats.json")
	v.SetDefault("store.gcs_bucket", "")
	v.SetDefault("store.gcs_object", "stats.json")
	v.SetDefault("metrics.textfile", "")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Problem.Slug == "" {
		return fmt.Errorf("problem.slug is required")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.HTTP.MaxBodyBytes < 0 {
		return fmt.Errorf("http.max_body_bytes must be >= 0")
	}
	if err := requireAbsoluteURL("archive.base_url", c.Archive.BaseURL); err != nil {
		return err
	}
	if c.Archive.TargetURL == "" {
		return fmt.Errorf("archive.target_url is required")
	}
	if c.Archive.PageURL == "" {
		return fmt.Errorf("archive.page_url is required")
	}
	if c.Archive.Delay < 0 {
		return fmt.Errorf("archive.delay must be >= 0")
	}
	if c.Archive.LookbackMonths < 0 {
		return fmt.Errorf("archive.lookback_months must be >= 0")
	}
	if err := requireAbsoluteURL("live.base_url", c.Live.BaseURL); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Store.Path) == "" {
		return fmt.Errorf("store.path is required")
	}
	if c.Store.GCSBucket != "" && c.Store.GCSObject == "" {
		return fmt.Errorf("store.gcs_object must be set when store.gcs_bucket is set")
	}
	return nil
}

// Timeout converts the HTTP timeout into a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// Location resolves live.timezone; empty means time.Local.
func (c Config) Location() (*time.Location, error) {
	if c.Live.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Live.Timezone)
	if err != nil {
		return nil, fmt.Errorf("live.timezone: %w", err)
	}
	return loc, nil
}

func requireAbsoluteURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL, got %q", key, raw)
	}
	return nil
}
