// Package config loads service configuration from environment variables.
//
// The service is deployed as a container; every knob is an environment
// variable, optionally seeded from a .env file by the caller (godotenv).
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/avencia/textlocate/internal/locator"
)

// EmbedderProvider selects the embedding backend at startup.
type EmbedderProvider string

const (
	ProviderOpenAI EmbedderProvider = "openai"
	ProviderLocal  EmbedderProvider = "local"
)

// Config holds the full service configuration.
type Config struct {
	// HTTP server
	ListenAddr string

	// OCR engine
	OCRLanguage    string
	TessdataPrefix string

	// Embedding backend
	EmbedderProvider   EmbedderProvider
	OpenAIAPIKey       string
	EmbeddingModel     string
	EmbeddingDimension int
	EmbeddingURL       string

	// Locator pipeline knobs
	Locator locator.Config
}

// Load reads configuration from the environment and validates it. Invalid
// values fail startup with a configuration-kind error.
func Load() (*Config, error) {
	defaults := locator.DefaultConfig()

	timeout, err := getEnvDuration("COLLABORATOR_TIMEOUT", defaults.CollaboratorTimeout)
	if err != nil {
		return nil, err
	}
	floor, err := getEnvFloat("OCR_CONFIDENCE_FLOOR", defaults.OCRConfidenceFloor)
	if err != nil {
		return nil, err
	}
	iou, err := getEnvFloat("MERGE_IOU_THRESHOLD", defaults.MergeIoUThreshold)
	if err != nil {
		return nil, err
	}
	gap, err := getEnvFloat("MERGE_GAP_TOLERANCE", defaults.MergeGapFactor)
	if err != nil {
		return nil, err
	}
	capacity, err := getEnvInt("EMBEDDING_CACHE_CAPACITY", defaults.EmbeddingCacheCapacity)
	if err != nil {
		return nil, err
	}
	poolSize, err := getEnvInt("COLLABORATOR_POOL_SIZE", defaults.CollaboratorPoolSize)
	if err != nil {
		return nil, err
	}
	dimension, err := getEnvInt("EMBEDDING_DIMENSION", 1536)
	if err != nil {
		return nil, err
	}
	preprocess, err := getEnvBool("PREPROCESS", defaults.Preprocess)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ListenAddr:         getEnvOrDefault("LISTEN_ADDR", ":8000"),
		OCRLanguage:        getEnvOrDefault("OCR_LANGUAGE", "eng"),
		TessdataPrefix:     getEnvOrDefault("TESSDATA_PREFIX", ""),
		EmbedderProvider:   EmbedderProvider(getEnvOrDefault("EMBEDDER_PROVIDER", string(ProviderOpenAI))),
		OpenAIAPIKey:       getEnvOrDefault("OPENAI_API_KEY", ""),
		EmbeddingModel:     getEnvOrDefault("EMBEDDING_MODEL", "text-embedding-3-small"),
		EmbeddingDimension: dimension,
		EmbeddingURL:       getEnvOrDefault("EMBEDDING_URL", "http://localhost:11434"),
		Locator: locator.Config{
			OCRConfidenceFloor:     floor,
			MergeIoUThreshold:      iou,
			MergeGapFactor:         gap,
			EmbeddingCacheCapacity: capacity,
			CollaboratorTimeout:    timeout,
			CollaboratorPoolSize:   poolSize,
			Convention:             locator.ScoreConvention(getEnvOrDefault("SCORE_CONVENTION", string(locator.ScoreNormalized))),
			Preprocess:             preprocess,
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.EmbedderProvider {
	case ProviderOpenAI, ProviderLocal:
	default:
		return locator.NewConfigurationError("config",
			fmt.Errorf("unknown embedder provider %q (want %q or %q)",
				c.EmbedderProvider, ProviderOpenAI, ProviderLocal))
	}
	if c.EmbeddingDimension <= 0 {
		return locator.NewConfigurationError("config",
			fmt.Errorf("embedding dimension must be positive, got %d", c.EmbeddingDimension))
	}
	return c.Locator.Validate()
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, locator.NewConfigurationError("config",
			fmt.Errorf("%s: %w", key, err))
	}
	return parsed, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, locator.NewConfigurationError("config",
			fmt.Errorf("%s: %w", key, err))
	}
	return parsed, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, locator.NewConfigurationError("config",
			fmt.Errorf("%s: %w", key, err))
	}
	return parsed, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, locator.NewConfigurationError("config",
			fmt.Errorf("%s: %w", key, err))
	}
	return parsed, nil
}
