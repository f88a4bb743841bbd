/**
 * Configuration for the roster extraction worker
 *
 * Loads configuration from environment variables. The pipeline tuning
 * values are empirical constants with defaults tuned against sample
 * roster screenshots; all of them can be overridden per deployment.
 */

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/courtside/scoreboard-worker/internal/extract"
)

// Config holds worker configuration
type Config struct {
	// Redis configuration (job queue + score sync channel)
	RedisURL string

	// PostgreSQL configuration (roster store)
	DatabaseURL string

	// Worker configuration
	QueueName         string
	WorkerConcurrency int
	ExtractionTimeout int // milliseconds
	MaxImageSize      int64
	RosterSlots       int

	// OCR configuration
	OCRLanguages []string

	// Pipeline tuning overrides
	UpscaleFactor     int
	LineTolerancePx   int
	MinWordConfidence float64
	MinLineConfidence float64
	BannerWidthRatio  float64
	BannerHeightRatio float64
	HeaderBandRatio   float64
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	tuning := extract.DefaultTuning()

	cfg := &Config{
		RedisURL:          getEnvOrDefault("REDIS_URL", "redis://localhost:6379"),
		DatabaseURL:       getEnvOrThrow("DATABASE_URL"),
		QueueName:         getEnvOrDefault("QUEUE_NAME", "roster"),
		WorkerConcurrency: getEnvAsIntOrDefault("WORKER_CONCURRENCY", 4),
		ExtractionTimeout: getEnvAsIntOrDefault("EXTRACTION_TIMEOUT", 120000), // 2 minutes
		MaxImageSize:      getEnvAsInt64OrDefault("MAX_IMAGE_SIZE", 10485760), // 10MB
		RosterSlots:       getEnvAsIntOrDefault("ROSTER_SLOTS", 7),
		OCRLanguages:      getEnvAsListOrDefault("OCR_LANGUAGES", []string{"tha", "eng"}),
		UpscaleFactor:     getEnvAsIntOrDefault("OCR_UPSCALE_FACTOR", tuning.UpscaleFactor),
		LineTolerancePx:   getEnvAsIntOrDefault("LINE_TOLERANCE_PX", tuning.LineTolerancePx),
		MinWordConfidence: getEnvAsFloatOrDefault("MIN_WORD_CONFIDENCE", tuning.MinWordConfidence),
		MinLineConfidence: getEnvAsFloatOrDefault("MIN_LINE_CONFIDENCE", tuning.MinLineConfidence),
		BannerWidthRatio:  getEnvAsFloatOrDefault("BANNER_WIDTH_RATIO", tuning.BannerWidthRatio),
		BannerHeightRatio: getEnvAsFloatOrDefault("BANNER_HEIGHT_RATIO", tuning.BannerHeightRatio),
		HeaderBandRatio:   getEnvAsFloatOrDefault("HEADER_BAND_RATIO", tuning.HeaderBandRatio),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.WorkerConcurrency < 1 || c.WorkerConcurrency > 32 {
		return fmt.Errorf("WORKER_CONCURRENCY must be between 1 and 32, got %d", c.WorkerConcurrency)
	}

	if c.MaxImageSize < 1024 || c.MaxImageSize > 104857600 { // 1KB to 100MB
		return fmt.Errorf("MAX_IMAGE_SIZE must be between 1KB and 100MB, got %d", c.MaxImageSize)
	}

	if c.RosterSlots < 1 || c.RosterSlots > 30 {
		return fmt.Errorf("ROSTER_SLOTS must be between 1 and 30, got %d", c.RosterSlots)
	}

	if c.UpscaleFactor < 1 || c.UpscaleFactor > 8 {
		return fmt.Errorf("OCR_UPSCALE_FACTOR must be between 1 and 8, got %d", c.UpscaleFactor)
	}

	if c.LineTolerancePx < 1 {
		return fmt.Errorf("LINE_TOLERANCE_PX must be positive, got %d", c.LineTolerancePx)
	}

	if len(c.OCRLanguages) == 0 {
		return fmt.Errorf("OCR_LANGUAGES must name at least one tessdata language")
	}

	return nil
}

// Tuning materializes the pipeline tuning from the loaded configuration.
func (c *Config) Tuning() extract.Tuning {
	tuning := extract.DefaultTuning()
	tuning.UpscaleFactor = c.UpscaleFactor
	tuning.LineTolerancePx = c.LineTolerancePx
	tuning.MinWordConfidence = c.MinWordConfidence
	tuning.MinLineConfidence = c.MinLineConfidence
	tuning.BannerWidthRatio = c.BannerWidthRatio
	tuning.BannerHeightRatio = c.BannerHeightRatio
	tuning.HeaderBandRatio = c.HeaderBandRatio
	return tuning
}

// getEnvOrDefault gets environment variable or returns default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrThrow gets environment variable or panics when unset
func getEnvOrThrow(key string) string {
	value := os.Getenv(key)
	if value == "" {
		panic(fmt.Sprintf("Required environment variable %s is not set", key))
	}
	return value
}

// getEnvAsIntOrDefault gets environment variable as int or returns default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsInt64OrDefault gets environment variable as int64 or returns default
func getEnvAsInt64OrDefault(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}

	return value
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

// getEnvAsListOrDefault gets environment variable as a comma-separated list
func getEnvAsListOrDefault(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
