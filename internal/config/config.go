package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port                  string
	LogLevel              string
	ModelPath             string
	FeaturesPath          string
	PositiveClass         string
	RiskThreshold         float64
	RateLimitRPS          float64
	RateLimitBurst        int
	ArtifactCheckSchedule string
}

// NewConfig loads configuration from environment variables.
// A .env file in the working directory is applied first when present.
func NewConfig() (*Config, error) {
	// missing .env is fine, the process environment is used as is
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		Port:                  getEnv("PORT", "8080"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		ModelPath:             getEnv("MODEL_PATH", "models/random_forest_model.pmml"),
		FeaturesPath:          getEnv("FEATURES_PATH", "models/feature_names.json"),
		PositiveClass:         getEnv("POSITIVE_CLASS", "1"),
		ArtifactCheckSchedule: getEnv("ARTIFACT_CHECK_SCHEDULE", "@every 5m"),
	}

	var err error
	if cfg.RiskThreshold, err = getEnvFloat("RISK_THRESHOLD", 0.40); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS, err = getEnvFloat("RATE_LIMIT_RPS", 20); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = getEnvInt("RATE_LIMIT_BURST", 40); err != nil {
		return nil, err
	}

	if cfg.ModelPath == "" {
		return nil, fmt.Errorf("MODEL_PATH is required")
	}
	if cfg.FeaturesPath == "" {
		return nil, fmt.Errorf("FEATURES_PATH is required")
	}
	if cfg.PositiveClass == "" {
		return nil, fmt.Errorf("POSITIVE_CLASS is required")
	}
	if cfg.RiskThreshold <= 0 || cfg.RiskThreshold > 1 {
		return nil, fmt.Errorf("RISK_THRESHOLD must be in (0, 1], got %v", cfg.RiskThreshold)
	}
	if cfg.RateLimitRPS <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS must be positive, got %v", cfg.RateLimitRPS)
	}
	if cfg.RateLimitBurst <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_BURST must be positive, got %d", cfg.RateLimitBurst)
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) (float64, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return f, nil
}

func getEnvInt(key string, defaultVal int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return i, nil
}
