// Package config loads notequiz settings from an optional YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/abhisek/notequiz/internal/llm"
)

// EnvPrefix is prepended to every environment override, e.g.
// NOTEQUIZ_SERVER_ADDR for server.addr.
const EnvPrefix = "NOTEQUIZ"

// MinSecretLength is the shortest auth secret accepted in release mode.
const MinSecretLength = 32

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Provider ProviderConfig `mapstructure:"llm"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Addr      string          `mapstructure:"addr"`
	Mode      string          `mapstructure:"mode"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig bounds requests per client IP. MaxRequests of 0 disables
// the limiter.
type RateLimitConfig struct {
	MaxRequests int           `mapstructure:"max_requests"`
	Window      time.Duration `mapstructure:"window"`
}

// Enabled reports whether both a budget and a refill window are set.
func (r RateLimitConfig) Enabled() bool {
	return r.MaxRequests > 0 && r.Window > 0
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type AuthConfig struct {
	Secret   string        `mapstructure:"secret"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

type ProviderConfig struct {
	Provider   string        `mapstructure:"provider"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Gemini     VendorConfig  `mapstructure:"gemini"`
	OpenAI     VendorConfig  `mapstructure:"openai"`
	Anthropic  VendorConfig  `mapstructure:"anthropic"`
	OpenRouter VendorConfig  `mapstructure:"openrouter"`
}

type VendorConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":5000")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.rate_limit.max_requests", 0)
	v.SetDefault("server.rate_limit.window", time.Minute)

	v.SetDefault("database.path", "")

	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.token_ttl", 24*time.Hour)

	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.timeout", 60*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "logs/notequiz.log")
	v.SetDefault("logging.max_size_mb", 100)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age_days", 30)
}

// Load reads notequiz.yaml from path (if present) and applies environment
// overrides. An empty path skips the file lookup.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.AddConfigPath(path)
	}
	v.SetConfigName("notequiz")
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Vendor keys are read from their conventional names as well.
	v.BindEnv("llm.gemini.api_key", EnvPrefix+"_LLM_GEMINI_API_KEY", "GEMINI_API_KEY")
	v.BindEnv("llm.openai.api_key", EnvPrefix+"_LLM_OPENAI_API_KEY", "OPENAI_API_KEY")
	v.BindEnv("llm.anthropic.api_key", EnvPrefix+"_LLM_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	v.BindEnv("llm.openrouter.api_key", EnvPrefix+"_LLM_OPENROUTER_API_KEY", "OPENROUTER_API_KEY")

	for _, key := range []string{
		"llm.gemini.model", "llm.openai.model", "llm.openai.base_url",
		"llm.anthropic.model", "llm.openrouter.model", "llm.openrouter.base_url",
	} {
		v.BindEnv(key)
	}

	if path != "" {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// LLM converts the provider section into an llm.Config. When no provider is
// named it falls back to llm.DiscoverConfig; when nothing is discovered
// either, the Gemini default is returned and Validate reports the missing key.
func (c *Config) LLM() llm.Config {
	p := c.Provider
	if p.Provider == "" {
		if found, ok := llm.DiscoverConfig(); ok {
			if p.Timeout > 0 {
				found.Timeout = p.Timeout
			}
			return found
		}
	}

	cfg := llm.DefaultConfig()
	if p.Provider != "" {
		cfg.Provider = p.Provider
	}
	if p.Timeout > 0 {
		cfg.Timeout = p.Timeout
	}

	cfg.Gemini.APIKey = p.Gemini.APIKey
	cfg.Gemini.Model = orDefault(p.Gemini.Model, cfg.Gemini.Model)

	cfg.OpenAI.APIKey = p.OpenAI.APIKey
	cfg.OpenAI.Model = orDefault(p.OpenAI.Model, cfg.OpenAI.Model)
	cfg.OpenAI.BaseURL = p.OpenAI.BaseURL

	cfg.Anthropic.APIKey = p.Anthropic.APIKey
	cfg.Anthropic.Model = orDefault(p.Anthropic.Model, cfg.Anthropic.Model)

	cfg.OpenRouter.APIKey = p.OpenRouter.APIKey
	cfg.OpenRouter.Model = orDefault(p.OpenRouter.Model, cfg.OpenRouter.Model)
	cfg.OpenRouter.BaseURL = p.OpenRouter.BaseURL

	return cfg
}

// Release reports whether the server runs in release mode.
func (c *Config) Release() bool {
	return c.Server.Mode == "release"
}

// Validate checks settings that would otherwise fail late. The LLM section is
// validated separately because only serve needs a provider.
func (c *Config) Validate() error {
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode: unknown mode %q", c.Server.Mode)
	}
	if c.Release() && len(c.Auth.Secret) < MinSecretLength {
		return fmt.Errorf("auth.secret: release mode requires at least %d bytes", MinSecretLength)
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.token_ttl: must be positive")
	}
	if c.Server.RateLimit.MaxRequests < 0 {
		return errors.New("server.rate_limit.max_requests: must not be negative")
	}
	if c.Server.RateLimit.MaxRequests > 0 && c.Server.RateLimit.Window <= 0 {
		return errors.New("server.rate_limit.window: must be positive when limiting")
	}
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
