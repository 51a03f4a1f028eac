// Package config loads and validates agent configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	FlareSolverr FlareSolverrConfig `mapstructure:"flaresolverr"`
	OpenAI       OpenAIConfig       `mapstructure:"openai"`
	Search       SearchConfig       `mapstructure:"search"`
	Recommend    RecommendConfig    `mapstructure:"recommend"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port       int    `mapstructure:"port"`
	CORSOrigin string `mapstructure:"cors_origin"`
}

// FlareSolverrConfig points at the rendering proxy and bounds page renders.
type FlareSolverrConfig struct {
	Endpoint             string `mapstructure:"endpoint"`
	SearchTimeoutSeconds int    `mapstructure:"search_timeout_seconds"`
	DetailTimeoutSeconds int    `mapstructure:"detail_timeout_seconds"`
}

// OpenAIConfig holds credentials and model selection for the LLM backend.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// SearchConfig governs the results-page scrape.
type SearchConfig struct {
	MaxItems int `mapstructure:"max_items"`
}

// RecommendConfig bounds the recommendation stage.
type RecommendConfig struct {
	HistoryLimit int `mapstructure:"history_limit"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("AGENT")
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
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.cors_origin", "http://localhost:3000")
	v.SetDefault("flaresolverr.endpoint", "http://localhost:8191/v1")
	v.SetDefault("flaresolverr.search_timeout_seconds", 10)
	v.SetDefault("flaresolverr.detail_timeout_seconds", 20)
	v.SetDefault("openai.model", "gpt-4-turbo")
	v.SetDefault("search.max_items", 3)
	v.SetDefault("recommend.history_limit", 3)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.FlareSolverr.Endpoint == "" {
		return fmt.Errorf("flaresolverr.endpoint must be set")
	}
	if c.FlareSolverr.SearchTimeoutSeconds <= 0 {
		return fmt.Errorf("flaresolverr.search_timeout_seconds must be > 0")
	}
	if c.FlareSolverr.DetailTimeoutSeconds <= 0 {
		return fmt.Errorf("flaresolverr.detail_timeout_seconds must be > 0")
	}
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("openai.api_key must be set")
	}
	if c.OpenAI.Model == "" {
		return fmt.Errorf("openai.model must be set")
	}
	if c.Search.MaxItems <= 0 || c.Search.MaxItems > 10 {
		return fmt.Errorf("search.max_items must be between 1 and 10")
	}
	if c.Recommend.HistoryLimit <= 0 {
		return fmt.Errorf("recommend.history_limit must be > 0")
	}
	return nil
}

// SearchTimeout returns the render budget for search-results pages.
func (c Config) SearchTimeout() time.Duration {
	return time.Duration(c.FlareSolverr.SearchTimeoutSeconds) * time.Second
}

// DetailTimeout returns the render budget for item detail pages.
func (c Config) DetailTimeout() time.Duration {
	return time.Duration(c.FlareSolverr.DetailTimeoutSeconds) * time.Second
}
