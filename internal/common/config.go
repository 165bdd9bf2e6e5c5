package common

import (
	"os"
	"strconv"
	"time"

	"github.com/joseph-ayodele/evidence-screener/constants"
)

// Config holds all application configuration
type Config struct {
	Provider  constants.Provider
	OpenAI    OpenAIConfig
	Anthropic AnthropicConfig
	Extract   ExtractConfig
	Output    OutputConfig
}

// OpenAIConfig holds settings for the OpenAI-class provider
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// AnthropicConfig holds settings for the Anthropic-class provider
type AnthropicConfig struct {
	APIKey          string
	BaseURL         string
	Model           string
	MaxTokens       int
	Timeout         time.Duration
	StreamThreshold int // estimated tokens above which the request streams
}

// ExtractConfig holds text-extraction settings
type ExtractConfig struct {
	Pdftoppm      string
	Tesseract     string
	TesseractLang string
	DPI           int
	MaxPages      int
	MinTextChars  int
}

// OutputConfig holds export settings
type OutputConfig struct {
	Dir string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	provider, err := constants.ParseProvider(getEnv("SCREENER_PROVIDER", "anthropic"))
	if err != nil {
		provider = constants.ProviderAnthropic
	}
	return &Config{
		Provider: provider,
		OpenAI: OpenAIConfig{
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", ""),
			Model:       getEnv("OPENAI_MODEL", "o3"),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 10*time.Minute),
		},
		Anthropic: AnthropicConfig{
			APIKey:          getEnv("ANTHROPIC_API_KEY", ""),
			BaseURL:         getEnv("ANTHROPIC_BASE_URL", ""),
			Model:           getEnv("ANTHROPIC_MODEL", "claude-opus-4-20250514"),
			MaxTokens:       getEnvAsInt("ANTHROPIC_MAX_TOKENS", 20000),
			Timeout:         getEnvAsDuration("ANTHROPIC_TIMEOUT", 10*time.Minute),
			StreamThreshold: getEnvAsInt("ANTHROPIC_STREAM_THRESHOLD", 100_000),
		},
		Extract: ExtractConfig{
			Pdftoppm:      getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract:     getEnv("TESSERACT_BIN", "tesseract"),
			TesseractLang: getEnv("TESSERACT_LANG", "eng"),
			DPI:           getEnvAsInt("OCR_DPI", 300),
			MaxPages:      getEnvAsInt("OCR_MAX_PAGES", 0),
			MinTextChars:  getEnvAsInt("EXTRACT_MIN_TEXT_CHARS", 50),
		},
		Output: OutputConfig{
			Dir: getEnv("OUTPUT_DIR", "output"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate checks for systemic misconfiguration before any document is
// attempted. A missing key for the selected provider blocks the whole batch.
func (c *Config) Validate() error {
	switch c.Provider {
	case constants.ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required for provider openai", ErrInvalidInput)
		}
	case constants.ProviderAnthropic:
		if c.Anthropic.APIKey == "" {
			return NewAppError("CONFIG_ERROR", "ANTHROPIC_API_KEY is required for provider anthropic", ErrInvalidInput)
		}
	default:
		return NewAppError("CONFIG_ERROR", "unknown provider", ErrInvalidInput)
	}
	return nil
}

// Model returns the model name for the selected provider.
func (c *Config) Model() string {
	if c.Provider == constants.ProviderOpenAI {
		return c.OpenAI.Model
	}
	return c.Anthropic.Model
}
