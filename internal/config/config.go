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
	Mode      string          `yaml:"mode" mapstructure:"mode"`
	Firecrawl FirecrawlConfig `yaml:"firecrawl" mapstructure:"firecrawl"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Crawl     CrawlConfig     `yaml:"crawl" mapstructure:"crawl"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Progress  ProgressConfig  `yaml:"progress" mapstructure:"progress"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// FirecrawlConfig holds managed crawl API settings.
type FirecrawlConfig struct {
	Key      string `yaml:"key" mapstructure:"key"`
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
	MaxDepth int    `yaml:"max_depth" mapstructure:"max_depth"`
	MaxPages int    `yaml:"max_pages" mapstructure:"max_pages"`
}

// AnthropicConfig holds model provider settings for the enrichment pass.
type AnthropicConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	Model       string `yaml:"model" mapstructure:"model"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// CrawlConfig configures the retrieval strategy chain.
type CrawlConfig struct {
	RateIntervalSecs  int      `yaml:"rate_interval_secs" mapstructure:"rate_interval_secs"`
	PollIntervalSecs  int      `yaml:"poll_interval_secs" mapstructure:"poll_interval_secs"`
	PollMaxAttempts   int      `yaml:"poll_max_attempts" mapstructure:"poll_max_attempts"`
	DirectTimeoutSecs int      `yaml:"direct_timeout_secs" mapstructure:"direct_timeout_secs"`
	IncludePaths      []string `yaml:"include_paths" mapstructure:"include_paths"`
	ExcludePaths      []string `yaml:"exclude_paths" mapstructure:"exclude_paths"`
	ForceBrowser      bool     `yaml:"force_browser" mapstructure:"force_browser"`
	BrowserURL        string   `yaml:"browser_url" mapstructure:"browser_url"`
	UseFixtures       bool     `yaml:"use_fixtures" mapstructure:"use_fixtures"`
	FixturePath       string   `yaml:"fixture_path" mapstructure:"fixture_path"`
}

// CacheConfig bounds the result cache.
type CacheConfig struct {
	TTLHours   int `yaml:"ttl_hours" mapstructure:"ttl_hours"`
	MaxEntries int `yaml:"max_entries" mapstructure:"max_entries"`
}

// ProgressConfig configures the external job-progress store.
type ProgressConfig struct {
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Timeout returns the model invocation timeout.
func (c AnthropicConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// RateInterval returns the minimum spacing between managed API calls.
func (c CrawlConfig) RateInterval() time.Duration {
	return time.Duration(c.RateIntervalSecs) * time.Second
}

// PollInterval returns the async job poll spacing.
func (c CrawlConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSecs) * time.Second
}

// DirectTimeout returns the direct-fetch hard timeout.
func (c CrawlConfig) DirectTimeout() time.Duration {
	return time.Duration(c.DirectTimeoutSecs) * time.Second
}

// TTL returns the cache entry lifetime.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// IsProd reports whether the runtime mode disables dev-only strategies
// (headless browser, fixtures).
func (c *Config) IsProd() bool { return c.Mode == "prod" }

// IsTest reports whether fixtures may substitute for live retrieval.
func (c *Config) IsTest() bool { return c.Mode == "test" }

// Validate checks the fields a command requires before it starts. mode is
// the command name ("crawl", "serve").
func (c *Config) Validate(mode string) error {
	var problems []string

	check := func(ok bool, msg string) {
		if !ok {
			problems = append(problems, msg)
		}
	}

	switch mode {
	case "crawl", "serve":
		check(c.Mode == "test" || c.Mode == "dev" || c.Mode == "prod",
			"mode must be one of test, dev, prod")
		check(c.Crawl.RateIntervalSecs > 0, "crawl.rate_interval_secs must be > 0")
		check(c.Crawl.PollIntervalSecs > 0, "crawl.poll_interval_secs must be > 0")
		check(c.Crawl.PollMaxAttempts > 0, "crawl.poll_max_attempts must be > 0")
		check(c.Cache.MaxEntries > 0, "cache.max_entries must be > 0")
		check(c.Cache.TTLHours > 0, "cache.ttl_hours must be > 0")
		if c.IsProd() {
			check(c.Firecrawl.Key != "", "firecrawl.key is required in prod mode")
			check(!c.Crawl.UseFixtures, "crawl.use_fixtures is not allowed in prod mode")
		}
		if mode == "serve" {
			check(c.Server.Port > 0, "server.port must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.Errorf("config: invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("BIZLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("mode", "dev")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("firecrawl.base_url", "https://api.firecrawl.dev/v1")
	v.SetDefault("firecrawl.max_depth", 2)
	v.SetDefault("firecrawl.max_pages", 10)
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.timeout_secs", 30)
	v.SetDefault("crawl.rate_interval_secs", 7)
	v.SetDefault("crawl.poll_interval_secs", 3)
	v.SetDefault("crawl.poll_max_attempts", 20)
	v.SetDefault("crawl.direct_timeout_secs", 10)
	v.SetDefault("cache.ttl_hours", 24)
	v.SetDefault("cache.max_entries", 100)

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
