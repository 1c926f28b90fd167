// Package config loads application configuration from file and environment.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data    DataConfig    `yaml:"data" mapstructure:"data"`
	Index   IndexConfig   `yaml:"index" mapstructure:"index"`
	Scrape  ScrapeConfig  `yaml:"scrape" mapstructure:"scrape"`
	Roundup RoundupConfig `yaml:"roundup" mapstructure:"roundup"`
	Lineup  LineupConfig  `yaml:"lineup" mapstructure:"lineup"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// DataConfig configures on-disk persistence.
type DataConfig struct {
	Dir           string `yaml:"dir" mapstructure:"dir"`
	CacheTTLHours int    `yaml:"cache_ttl_hours" mapstructure:"cache_ttl_hours"`
}

// CacheTTL returns the detail-page cache lifetime.
func (c DataConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLHours) * time.Hour
}

// IndexConfig configures the upstream report index endpoint.
type IndexConfig struct {
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	ListingPath  string `yaml:"listing_path" mapstructure:"listing_path"`
	ResourcePath string `yaml:"resource_path" mapstructure:"resource_path"`
	MaxPages     int    `yaml:"max_pages" mapstructure:"max_pages"`
}

// ScrapeConfig configures detail-page fetching.
type ScrapeConfig struct {
	DelaySecs   float64 `yaml:"delay_secs" mapstructure:"delay_secs"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent   string  `yaml:"user_agent" mapstructure:"user_agent"`
}

// Delay returns the fixed pre-request throttle.
func (c ScrapeConfig) Delay() time.Duration {
	return time.Duration(c.DelaySecs * float64(time.Second))
}

// Timeout returns the per-request timeout.
func (c ScrapeConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// RoundupConfig configures the weekly roundup collection window.
type RoundupConfig struct {
	Category         string `yaml:"category" mapstructure:"category"`
	Year             int    `yaml:"year" mapstructure:"year"` // 0 = current year
	MinIntervalMins  int    `yaml:"min_interval_mins" mapstructure:"min_interval_mins"`
	TrendDaysDefault int    `yaml:"trend_days_default" mapstructure:"trend_days_default"`
}

// MinInterval returns the minimum gap between unforced update cycles.
func (c RoundupConfig) MinInterval() time.Duration {
	return time.Duration(c.MinIntervalMins) * time.Minute
}

// LineupConfig configures the port lineup feed scraper.
type LineupConfig struct {
	BaseURL         string  `yaml:"base_url" mapstructure:"base_url"`
	FeedPath        string  `yaml:"feed_path" mapstructure:"feed_path"`
	DelaySecs       float64 `yaml:"delay_secs" mapstructure:"delay_secs"`
	MinIntervalMins int     `yaml:"min_interval_mins" mapstructure:"min_interval_mins"`
	KeywordsFile    string  `yaml:"keywords_file" mapstructure:"keywords_file"`
}

// MinInterval returns the minimum gap between unforced lineup updates.
func (c LineupConfig) MinInterval() time.Duration {
	return time.Duration(c.MinIntervalMins) * time.Minute
}

// Delay returns the fixed pre-request throttle for the lineup feed.
func (c LineupConfig) Delay() time.Duration {
	return time.Duration(c.DelaySecs * float64(time.Second))
}

// ServerConfig configures the query API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ROUNDUP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.dir", "data")
	v.SetDefault("data.cache_ttl_hours", 24)
	v.SetDefault("index.base_url", "https://www.balticexchange.com")
	v.SetDefault("index.listing_path", "/bin/public/balticexchange/consumer/articlefilterlist.json")
	v.SetDefault("index.resource_path", "/content/balticexchange/consumer/en/data-services/WeeklyRoundup/jcr:content/articlefilterpane")
	v.SetDefault("index.max_pages", 10)
	v.SetDefault("scrape.delay_secs", 2.0)
	v.SetDefault("scrape.timeout_secs", 30)
	v.SetDefault("scrape.user_agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	v.SetDefault("roundup.category", "dry")
	v.SetDefault("roundup.year", 0)
	v.SetDefault("roundup.min_interval_mins", 60)
	v.SetDefault("roundup.trend_days_default", 30)
	v.SetDefault("lineup.base_url", "https://www.anp.org.ma")
	v.SetDefault("lineup.feed_path", "/_vti_bin/WS/Service.svc/mvmnv/all")
	v.SetDefault("lineup.delay_secs", 1.0)
	v.SetDefault("lineup.min_interval_mins", 5)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
