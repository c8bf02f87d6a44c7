// Package config loads xlmatch settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultSymbols is the default marker alphabet.
const DefaultSymbols = "あいうえお"

// Config holds xlmatch configuration
type Config struct {
	// Language model
	LLMProvider    string
	LLMModel       string
	LLMTemperature float64

	// API keys and endpoints
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	AnthropicAPIKey string
	MistralAPIKey   string
	OllamaHost      string

	// Layout analysis service
	AnalysisEndpoint string
	AnalysisAPIKey   string
	AnalysisDir      string

	// Markup
	Symbols string

	// Text normalization applied to analysis output, e.g. "kanji,width"
	Normalize string

	// Logging
	LogLevel  string
	LogFormat string
}

var defaultModels = map[string]string{
	"openai":    "gpt-4o",
	"anthropic": "claude-3-5-sonnet-latest",
	"mistral":   "mistral-large-latest",
	"ollama":    "llama3.1",
}

// LoadDotEnv loads variables from the given .env files (".env" when none
// are named). A missing file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	provider := strings.ToLower(getEnvOrDefault("XLMATCH_LLM_PROVIDER", "openai"))
	cfg := &Config{
		LLMProvider:      provider,
		LLMModel:         getEnvOrDefault("XLMATCH_LLM_MODEL", defaultModels[provider]),
		LLMTemperature:   getEnvAsFloatOrDefault("XLMATCH_LLM_TEMPERATURE", 0),
		OpenAIAPIKey:     getEnvOrDefault("OPENAI_API_KEY", ""),
		OpenAIBaseURL:    getEnvOrDefault("OPENAI_BASE_URL", ""),
		AnthropicAPIKey:  getEnvOrDefault("ANTHROPIC_API_KEY", ""),
		MistralAPIKey:    getEnvOrDefault("MISTRAL_API_KEY", ""),
		OllamaHost:       getEnvOrDefault("OLLAMA_HOST", "http://localhost:11434"),
		AnalysisEndpoint: getEnvOrDefault("AZURE_DOCUMENT_INTELLIGENCE_ENDPOINT", ""),
		AnalysisAPIKey:   getEnvOrDefault("AZURE_DOCUMENT_INTELLIGENCE_API_KEY", ""),
		AnalysisDir:      getEnvOrDefault("XLMATCH_ANALYSIS_DIR", "out"),
		Symbols:          getEnvOrDefault("XLMATCH_SYMBOLS", DefaultSymbols),
		Normalize:        getEnvOrDefault("XLMATCH_NORMALIZE", "kanji,width"),
		LogLevel:         getEnvOrDefault("XLMATCH_LOG_LEVEL", "info"),
		LogFormat:        getEnvOrDefault("XLMATCH_LOG_FORMAT", "text"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks values that do not depend on the command being run.
func (c *Config) Validate() error {
	if _, ok := defaultModels[c.LLMProvider]; !ok {
		return fmt.Errorf("XLMATCH_LLM_PROVIDER must be one of openai, anthropic, mistral, ollama, got %q", c.LLMProvider)
	}
	if c.LLMTemperature < 0 || c.LLMTemperature > 2 {
		return fmt.Errorf("XLMATCH_LLM_TEMPERATURE must be between 0 and 2, got %g", c.LLMTemperature)
	}
	if c.Symbols == "" {
		return fmt.Errorf("XLMATCH_SYMBOLS must not be empty")
	}
	return nil
}

// ValidateLLM checks the credentials of the selected provider.
func (c *Config) ValidateLLM() error {
	switch c.LLMProvider {
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for provider openai")
		}
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for provider anthropic")
		}
	case "mistral":
		if c.MistralAPIKey == "" {
			return fmt.Errorf("MISTRAL_API_KEY is required for provider mistral")
		}
	}
	return nil
}

// ValidateAnalysis checks the layout analysis service settings.
func (c *Config) ValidateAnalysis() error {
	if c.AnalysisEndpoint == "" {
		return fmt.Errorf("AZURE_DOCUMENT_INTELLIGENCE_ENDPOINT is required")
	}
	if c.AnalysisAPIKey == "" {
		return fmt.Errorf("AZURE_DOCUMENT_INTELLIGENCE_API_KEY is required")
	}
	return nil
}

// LLMCredentials returns the API key and base URL of the selected provider.
func (c *Config) LLMCredentials() (apiKey, baseURL string) {
	switch c.LLMProvider {
	case "openai":
		return c.OpenAIAPIKey, c.OpenAIBaseURL
	case "anthropic":
		return c.AnthropicAPIKey, ""
	case "mistral":
		return c.MistralAPIKey, ""
	case "ollama":
		return "", c.OllamaHost
	}
	return "", ""
}

// getEnvOrDefault gets environment variable or returns default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsFloatOrDefault gets environment variable as float64 or returns default
func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}
