package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config selects a provider and carries settings for all of them, so
// switching providers is a one-field change. Models may be friendly
// aliases ("claude-haiku") or raw vendor ids.
type Config struct {
	Provider string // anthropic | openai | gemini | openrouter | mock

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig

	Retry   RetryConfig
	Timeout time.Duration // whole call, retries included
}

type AnthropicConfig struct {
	APIKey, Model string
}

type GeminiConfig struct {
	APIKey, Model string
}

// OpenAIConfig also drives OpenAI-compatible gateways via BaseURL.
type OpenAIConfig struct {
	APIKey, Model string
	BaseURL       string
	Headers       map[string]string // sent with every request
}

type OpenRouterConfig struct {
	APIKey, Model string
	BaseURL       string

	// Attribution shown on openrouter.ai.
	AppTitle, AppURL string
}

// RetryConfig shapes the exponential backoff of WithRetry.
type RetryConfig struct {
	MaxAttempts          int
	InitialWait, MaxWait time.Duration
	Multiplier           float64
}

func DefaultConfig() Config {
	return Config{
		Provider:   "anthropic",
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"},
		Retry:      RetryConfig{MaxAttempts: 3, InitialWait: time.Second, MaxWait: 10 * time.Second, Multiplier: 2},
		Timeout:    30 * time.Second,
	}
}

// providerNames lists every provider that needs a key, in discovery
// order.
var providerNames = []string{"gemini", "openai", "anthropic", "openrouter"}

// creds returns pointers to the key and model settings of a provider,
// or nils for "mock" and unknown names.
func (c *Config) creds(provider string) (key, model *string) {
	switch provider {
	case "anthropic":
		return &c.Anthropic.APIKey, &c.Anthropic.Model
	case "openai":
		return &c.OpenAI.APIKey, &c.OpenAI.Model
	case "gemini":
		return &c.Gemini.APIKey, &c.Gemini.Model
	case "openrouter":
		return &c.OpenRouter.APIKey, &c.OpenRouter.Model
	}
	return nil, nil
}

// envName is EDUQUEST_<PROVIDER>_<SUFFIX>.
func envName(provider, suffix string) string {
	return "EDUQUEST_" + strings.ToUpper(provider) + "_" + suffix
}

func setFromEnv(dst *string, name string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

// ConfigFromEnv reads EDUQUEST_LLM_PROVIDER plus the EDUQUEST_<PROVIDER>_API_KEY
// and _MODEL variables of every provider over DefaultConfig.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	setFromEnv(&cfg.Provider, "EDUQUEST_LLM_PROVIDER")
	for _, name := range providerNames {
		key, model := cfg.creds(name)
		setFromEnv(key, envName(name, "API_KEY"))
		setFromEnv(model, envName(name, "MODEL"))
	}
	setFromEnv(&cfg.OpenAI.BaseURL, "EDUQUEST_OPENAI_BASE_URL")
	return cfg
}

// DiscoverConfig picks the first provider whose vendor key variable
// (GEMINI_API_KEY, OPENAI_API_KEY, ...) is set, in providerNames order.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	for _, name := range providerNames {
		if k := os.Getenv(strings.ToUpper(name) + "_API_KEY"); k != "" {
			cfg.Provider = name
			key, _ := cfg.creds(name)
			*key = k
			return cfg, true
		}
	}
	return Config{}, false
}

// Validate checks that the selected provider has its API key.
func (c Config) Validate() error {
	if c.Provider == "mock" {
		return nil
	}
	key, _ := c.creds(c.Provider)
	if key == nil {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if *key == "" {
		return fmt.Errorf("%s is required for the %s provider", envName(c.Provider, "API_KEY"), c.Provider)
	}
	return nil
}

// ConfigFromEnvOrDiscover prefers the EDUQUEST_* variables and falls back
// to DiscoverConfig unless a provider was named explicitly.
func ConfigFromEnvOrDiscover() (Config, bool) {
	cfg := ConfigFromEnv()
	if cfg.Validate() == nil || os.Getenv("EDUQUEST_LLM_PROVIDER") != "" {
		return cfg, true
	}
	return DiscoverConfig()
}
