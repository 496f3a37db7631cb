// Package config loads eduquest.yaml, .env and EDUQUEST_* variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/eduquest/eduquest/internal/llm"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "EDUQUEST"

type Config struct {
	DB        DBConfig        `mapstructure:"db"`
	Log       LogConfig       `mapstructure:"log"`
	Server    ServerConfig    `mapstructure:"server"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	LLM       LLMConfig       `mapstructure:"llm"`
	User      UserConfig      `mapstructure:"user"`
}

type DBConfig struct {
	// Path is empty to use store.DefaultDBPath.
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Env   string `mapstructure:"env"`
	File  string `mapstructure:"file"`
}

type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	CORSOrigins  []string      `mapstructure:"cors_origins"`
}

// RedisConfig enables the catalog cache when Addr is set.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type SchedulerConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	RolloverAt   string        `mapstructure:"rollover_at"`
	StreakDecay  string        `mapstructure:"streak_decay"`
	LLMRetention time.Duration `mapstructure:"llm_retention"`

	// AttemptIdle is how long an untouched in-progress attempt survives
	// in the server. Zero keeps them until restart.
	AttemptIdle time.Duration `mapstructure:"attempt_idle"`
}

// LLMConfig overrides the provider chosen from the environment. Empty
// fields keep what llm.ConfigFromEnvOrDiscover found.
type LLMConfig struct {
	Provider    string        `mapstructure:"provider"`
	Model       string        `mapstructure:"model"`
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	AppURL      string        `mapstructure:"app_url"` // openrouter attribution
	MaxAttempts int           `mapstructure:"max_attempts"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// UserConfig is the local learner the TUI and CLI act as.
type UserConfig struct {
	ID   string `mapstructure:"id"`
	Name string `mapstructure:"name"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.env", "development")
	v.SetDefault("log.file", "")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 10*time.Minute)
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.rollover_at", "00:00")
	v.SetDefault("scheduler.streak_decay", "00:05")
	v.SetDefault("scheduler.llm_retention", 30*24*time.Hour)
	v.SetDefault("scheduler.attempt_idle", 2*time.Hour)
	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.app_url", "")
	v.SetDefault("llm.max_attempts", 0)
	v.SetDefault("llm.timeout", 0)
	v.SetDefault("user.id", "local")
	v.SetDefault("user.name", "")
}

// Load reads configuration. path is the --config flag; when empty the
// file is searched in the working directory and then in
// $XDG_CONFIG_HOME/eduquest. A missing file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("eduquest")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir := configDir(); dir != "" {
			v.AddConfigPath(dir)
		}
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
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "eduquest")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "eduquest")
}

// Validate checks values viper cannot type-check.
func (c *Config) Validate() error {
	for key, at := range map[string]string{
		"scheduler.rollover_at":  c.Scheduler.RolloverAt,
		"scheduler.streak_decay": c.Scheduler.StreakDecay,
	} {
		if _, err := time.Parse("15:04", at); err != nil {
			return fmt.Errorf("%s: want HH:MM, got %q", key, at)
		}
	}
	if c.Scheduler.AttemptIdle < 0 {
		return fmt.Errorf("scheduler.attempt_idle must not be negative")
	}
	if c.Redis.TTL < 0 {
		return fmt.Errorf("redis.ttl must not be negative")
	}
	if c.User.ID == "" {
		return fmt.Errorf("user.id is required")
	}
	return nil
}

// LLMProviderConfig merges the llm section over the environment. The
// boolean is false when no provider is configured anywhere.
func (c *Config) LLMProviderConfig() (llm.Config, bool) {
	cfg, ok := llm.ConfigFromEnvOrDiscover()
	if c.LLM.Provider != "" {
		if !ok {
			cfg = llm.ConfigFromEnv()
		}
		cfg.Provider = c.LLM.Provider
		ok = true
	}
	if !ok {
		return llm.Config{}, false
	}

	switch cfg.Provider {
	case "anthropic":
		override(&cfg.Anthropic.APIKey, c.LLM.APIKey)
		override(&cfg.Anthropic.Model, c.LLM.Model)
	case "openai":
		override(&cfg.OpenAI.APIKey, c.LLM.APIKey)
		override(&cfg.OpenAI.Model, c.LLM.Model)
		override(&cfg.OpenAI.BaseURL, c.LLM.BaseURL)
	case "gemini":
		override(&cfg.Gemini.APIKey, c.LLM.APIKey)
		override(&cfg.Gemini.Model, c.LLM.Model)
	case "openrouter":
		override(&cfg.OpenRouter.APIKey, c.LLM.APIKey)
		override(&cfg.OpenRouter.Model, c.LLM.Model)
		override(&cfg.OpenRouter.BaseURL, c.LLM.BaseURL)
		override(&cfg.OpenRouter.AppURL, c.LLM.AppURL)
	}
	if c.LLM.MaxAttempts > 0 {
		cfg.Retry.MaxAttempts = c.LLM.MaxAttempts
	}
	if c.LLM.Timeout > 0 {
		cfg.Timeout = c.LLM.Timeout
	}
	return cfg, true
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
