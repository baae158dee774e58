// Package config loads service settings from an optional JSON file and the
// environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jonathan/resume-studio/internal/logging"
)

// EnvPrefix namespaces environment overrides, e.g. RESUME_STUDIO_SERVER_ADDR
const EnvPrefix = "RESUME_STUDIO"

// Config holds every setting the CLI and server read. Zero values fall back
// to defaults.
type Config struct {
	DatabaseURL  string `mapstructure:"database_url"`
	RedisURL     string `mapstructure:"redis_url"`
	GeminiAPIKey string `mapstructure:"gemini_api_key"`

	// AIBaseURL is where the pipeline sends analysis and generation requests
	AIBaseURL string `mapstructure:"ai_base_url"`

	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
}

// LogConfig selects level and encoding
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LLMConfig overrides model names per tier
type LLMConfig struct {
	LiteModel     string  `mapstructure:"lite_model"`
	StandardModel string  `mapstructure:"standard_model"`
	AdvancedModel string  `mapstructure:"advanced_model"`
	Temperature   float32 `mapstructure:"temperature"`
}

// CacheConfig configures the category cache
type CacheConfig struct {
	CategoryTTL time.Duration `mapstructure:"category_ttl"`
}

// RateLimitConfig configures per-client request limits
type RateLimitConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	DefaultLimit  int           `mapstructure:"default_limit"`
	DefaultWindow time.Duration `mapstructure:"default_window"`
	Whitelist     []string      `mapstructure:"whitelist"`
	Blacklist     []string      `mapstructure:"blacklist"`
}

// Defaults returns the built-in settings
func Defaults() Config {
	return Config{
		AIBaseURL: "http://localhost:8080",
		Server: ServerConfig{
			Addr:            ":8080",
			AllowedOrigins:  []string{"*"},
			ShutdownTimeout: 15 * time.Second,
			MaxUploadBytes:  10 << 20,
		},
		Log:   LogConfig{Level: "info", Format: logging.FormatJSON},
		Cache: CacheConfig{CategoryTTL: 10 * time.Minute},
		RateLimit: RateLimitConfig{
			Enabled:       true,
			DefaultLimit:  1000,
			DefaultWindow: time.Minute,
		},
	}
}

// bareEnv lists keys that also read an unprefixed variable
var bareEnv = map[string]string{
	"database_url":   "DATABASE_URL",
	"redis_url":      "REDIS_URL",
	"gemini_api_key": "GEMINI_API_KEY",
}

// Load reads path (when non-empty) and applies environment overrides on top
// of Defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Defaults())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, bare := range bareEnv {
		if err := v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(key), bare); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("database_url", d.DatabaseURL)
	v.SetDefault("redis_url", d.RedisURL)
	v.SetDefault("gemini_api_key", d.GeminiAPIKey)
	v.SetDefault("ai_base_url", d.AIBaseURL)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.max_upload_bytes", d.Server.MaxUploadBytes)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("llm.lite_model", d.LLM.LiteModel)
	v.SetDefault("llm.standard_model", d.LLM.StandardModel)
	v.SetDefault("llm.advanced_model", d.LLM.AdvancedModel)
	v.SetDefault("llm.temperature", d.LLM.Temperature)
	v.SetDefault("cache.category_ttl", d.Cache.CategoryTTL)
	v.SetDefault("rate_limit.enabled", d.RateLimit.Enabled)
	v.SetDefault("rate_limit.default_limit", d.RateLimit.DefaultLimit)
	v.SetDefault("rate_limit.default_window", d.RateLimit.DefaultWindow)
	v.SetDefault("rate_limit.whitelist", d.RateLimit.Whitelist)
	v.SetDefault("rate_limit.blacklist", d.RateLimit.Blacklist)
}

// Validate checks value ranges. Presence of credentials is checked by the
// command that needs them.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.Log.Format != logging.FormatJSON && c.Log.Format != logging.FormatConsole {
		return fmt.Errorf("config error: log format must be %q or %q", logging.FormatJSON, logging.FormatConsole)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("config error: server address is required")
	}
	if c.Server.MaxUploadBytes < 0 {
		return fmt.Errorf("config error: 'max_upload_bytes' must be non-negative")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("config error: temperature must be between 0 and 2")
	}
	if c.RateLimit.Enabled && (c.RateLimit.DefaultLimit <= 0 || c.RateLimit.DefaultWindow <= 0) {
		return fmt.Errorf("config error: rate limit needs a positive limit and window")
	}
	return nil
}

// MergeWithDefaults returns a copy with empty fields filled from defaults.
// Bools are left alone since unset and false look the same.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.AIBaseURL == "" {
		result.AIBaseURL = defaults.AIBaseURL
	}
	if result.Server.Addr == "" {
		result.Server.Addr = defaults.Server.Addr
	}
	if len(result.Server.AllowedOrigins) == 0 {
		result.Server.AllowedOrigins = defaults.Server.AllowedOrigins
	}
	if result.Server.ShutdownTimeout == 0 {
		result.Server.ShutdownTimeout = defaults.Server.ShutdownTimeout
	}
	if result.Server.MaxUploadBytes == 0 {
		result.Server.MaxUploadBytes = defaults.Server.MaxUploadBytes
	}
	if result.Log.Level == "" {
		result.Log.Level = defaults.Log.Level
	}
	if result.Log.Format == "" {
		result.Log.Format = defaults.Log.Format
	}
	if result.LLM.LiteModel == "" {
		result.LLM.LiteModel = defaults.LLM.LiteModel
	}
	if result.LLM.StandardModel == "" {
		result.LLM.StandardModel = defaults.LLM.StandardModel
	}
	if result.LLM.AdvancedModel == "" {
		result.LLM.AdvancedModel = defaults.LLM.AdvancedModel
	}
	if result.LLM.Temperature == 0 {
		result.LLM.Temperature = defaults.LLM.Temperature
	}
	if result.Cache.CategoryTTL == 0 {
		result.Cache.CategoryTTL = defaults.Cache.CategoryTTL
	}
	if result.RateLimit.DefaultLimit == 0 {
		result.RateLimit.DefaultLimit = defaults.RateLimit.DefaultLimit
	}
	if result.RateLimit.DefaultWindow == 0 {
		result.RateLimit.DefaultWindow = defaults.RateLimit.DefaultWindow
	}

	return result
}
