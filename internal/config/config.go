// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Auth      AuthConfig      `mapstructure:"auth"`
	X         XConfig         `mapstructure:"x"`
	Extract   ExtractConfig   `mapstructure:"extract"`
	Summarize SummarizeConfig `mapstructure:"summarize"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port          int `mapstructure:"port"`
	MaxInputBytes int `mapstructure:"max_input_bytes"`
}

// AuthConfig defines API authentication toggles.
type AuthConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"api_key"`
}

// XConfig controls access to the platform API.
type XConfig struct {
	BearerToken    string `mapstructure:"bearer_token"`
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	PageSize       int    `mapstructure:"page_size"`
	ThreadMaxItems int    `mapstructure:"thread_max_items"`
}

// ExtractConfig governs the extraction pipeline heuristics and fetch
// deadlines. The residue and article thresholds are tunable constants,
// not derived values.
type ExtractConfig struct {
	UserAgent             string `mapstructure:"user_agent"`
	LinkResidueMax        int    `mapstructure:"link_residue_max"`
	ArticleMinChars       int    `mapstructure:"article_min_chars"`
	ArticleMaxChars       int    `mapstructure:"article_max_chars"`
	ResolveTimeoutSeconds int    `mapstructure:"resolve_timeout_seconds"`
	ArticleTimeoutSeconds int    `mapstructure:"article_timeout_seconds"`
}

// SummarizeConfig configures the summarization collaborator.
type SummarizeConfig struct {
	APIKey          string `mapstructure:"api_key"`
	BaseURL         string `mapstructure:"base_url"`
	Model           string `mapstructure:"model"`
	MaxInputChars   int    `mapstructure:"max_input_chars"`
	MaxOutputTokens int    `mapstructure:"max_output_tokens"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds"`
}

// RateLimitConfig holds the write-path ceilings.
type RateLimitConfig struct {
	PerMinute   int `mapstructure:"per_minute"`
	PerDay      int `mapstructure:"per_day"`
	CharsPerDay int `mapstructure:"chars_per_day"`
}

// StorageConfig selects and configures the bookmark store.
type StorageConfig struct {
	Provider string `mapstructure:"provider"`
	DSN      string `mapstructure:"dsn"`
	Table    string `mapstructure:"table"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SUMMARK")
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
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max_input_bytes", 65536)
	v.SetDefault("x.base_url", "https://api.x.com")
	v.SetDefault("x.timeout_seconds", 10)
	v.SetDefault("x.page_size", 100)
	v.SetDefault("x.thread_max_items", 40)
	v.SetDefault("extract.user_agent", "summark-bot/0.1")
	v.SetDefault("extract.link_residue_max", 40)
	v.SetDefault("extract.article_min_chars", 600)
	v.SetDefault("extract.article_max_chars", 30000)
	v.SetDefault("extract.resolve_timeout_seconds", 9)
	v.SetDefault("extract.article_timeout_seconds", 12)
	v.SetDefault("summarize.base_url", "https://api.openai.com")
	v.SetDefault("summarize.model", "gpt-4o-mini")
	v.SetDefault("summarize.max_input_chars", 8000)
	v.SetDefault("summarize.max_output_tokens", 160)
	v.SetDefault("summarize.timeout_seconds", 30)
	v.SetDefault("ratelimit.per_minute", 10)
	v.SetDefault("ratelimit.per_day", 200)
	v.SetDefault("ratelimit.chars_per_day", 200000)
	v.SetDefault("storage.provider", "memory")
	v.SetDefault("storage.table", "bookmarks")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Auth.Enabled && c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key must be set when auth is enabled")
	}
	if c.X.PageSize <= 0 || c.X.PageSize > 100 {
		return fmt.Errorf("x.page_size must be in 1..100")
	}
	if c.X.ThreadMaxItems <= 0 {
		return fmt.Errorf("x.thread_max_items must be > 0")
	}
	if c.Extract.ResolveTimeoutSeconds <= 0 || c.Extract.ArticleTimeoutSeconds <= 0 {
		return fmt.Errorf("extract timeouts must be > 0")
	}
	if c.Extract.ArticleMinChars < 0 || c.Extract.ArticleMaxChars <= 0 {
		return fmt.Errorf("extract article character bounds are invalid")
	}
	if c.RateLimit.PerMinute <= 0 || c.RateLimit.PerDay <= 0 || c.RateLimit.CharsPerDay <= 0 {
		return fmt.Errorf("ratelimit ceilings must be > 0")
	}
	switch c.Storage.Provider {
	case "memory":
	case "postgres":
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn must be set when storage.provider is postgres")
		}
	default:
		return fmt.Errorf("unknown storage provider: %s", c.Storage.Provider)
	}
	return nil
}

// XTimeout converts the platform API timeout config into a duration.
func (c Config) XTimeout() time.Duration {
	return time.Duration(c.X.TimeoutSeconds) * time.Second
}

// ResolveTimeout returns the redirect resolution deadline.
func (c Config) ResolveTimeout() time.Duration {
	return time.Duration(c.Extract.ResolveTimeoutSeconds) * time.Second
}

// ArticleTimeout returns the article fetch deadline.
func (c Config) ArticleTimeout() time.Duration {
	return time.Duration(c.Extract.ArticleTimeoutSeconds) * time.Second
}

// SummarizeTimeout returns the summarization call deadline.
func (c Config) SummarizeTimeout() time.Duration {
	return time.Duration(c.Summarize.TimeoutSeconds) * time.Second
}
