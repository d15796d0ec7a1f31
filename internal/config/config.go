package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Config struct {
	// Pipeline settings
	Profile     string // built-in profile name
	ProfileFile string // optional YAML profile, overrides Profile
	OutputDir   string
	Preview     bool // print the scraped stories table

	// LLM settings
	LLMProvider     string // "openai" (any OpenAI-compatible server) or "gemini"
	LLMBaseURL      string
	LLMAPIKey       string
	LLMModel        string
	LLMDisabled     bool
	GeminiAPIKey    string
	GeminiModel     string
	MaxLLMRequests  int // maximum LLM requests per run (0 = unlimited)
	LLMRetryDelay   time.Duration
	LLMProbeTimeout time.Duration

	// Logging
	Debug    bool
	LogLevel string
	LogFile  string
}

// Load reads the configuration from the environment over the defaults.
// Callers apply their overrides and then call Validate.
func Load() *Config {
	cfg := &Config{
		// Default values
		Profile:         "sports",
		OutputDir:       ".",
		LLMProvider:     ProviderOpenAI,
		LLMBaseURL:      "http://localhost:1234/v1",
		LLMAPIKey:       "lm-studio",
		LLMModel:        "local-model",
		GeminiModel:     "gemini-1.5-flash",
		LLMRetryDelay:   2 * time.Second,
		LLMProbeTimeout: 5 * time.Second,
		LogLevel:        "info",
	}

	cfg.Profile = getEnvOrDefault("PIPELINE_PROFILE", cfg.Profile)
	cfg.ProfileFile = os.Getenv("PROFILE_FILE")
	cfg.OutputDir = getEnvOrDefault("OUTPUT_DIR", cfg.OutputDir)

	cfg.LLMProvider = strings.ToLower(getEnvOrDefault("LLM_PROVIDER", cfg.LLMProvider))
	cfg.LLMBaseURL = getEnvOrDefault("LLM_BASE_URL", cfg.LLMBaseURL)
	cfg.LLMAPIKey = getEnvOrDefault("LLM_API_KEY", cfg.LLMAPIKey)
	cfg.LLMModel = getEnvOrDefault("LLM_MODEL", cfg.LLMModel)
	cfg.LLMDisabled = os.Getenv("LLM_DISABLED") == "true"
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.GeminiModel = getEnvOrDefault("GEMINI_MODEL", cfg.GeminiModel)

	if v := os.Getenv("MAX_LLM_REQUESTS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val >= 0 {
			cfg.MaxLLMRequests = val
		}
	}
	cfg.LLMRetryDelay = getEnvDurationOrDefault("LLM_RETRY_DELAY", cfg.LLMRetryDelay)
	cfg.LLMProbeTimeout = getEnvDurationOrDefault("LLM_PROBE_TIMEOUT", cfg.LLMProbeTimeout)

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = os.Getenv("LOG_FILE")

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d >= 0 {
			return d
		}
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.Profile == "" && c.ProfileFile == "" {
		return fmt.Errorf("PIPELINE_PROFILE or PROFILE_FILE is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR must not be empty")
	}
	if c.LLMProvider != ProviderOpenAI && c.LLMProvider != ProviderGemini {
		return fmt.Errorf("LLM_PROVIDER must be '%s' or '%s'", ProviderOpenAI, ProviderGemini)
	}
	if c.LLMDisabled {
		return nil
	}
	if c.LLMProvider == ProviderOpenAI && c.LLMBaseURL == "" {
		return fmt.Errorf("LLM_BASE_URL is required for the openai provider")
	}
	if c.LLMProvider == ProviderGemini && c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
	}
	return nil
}
