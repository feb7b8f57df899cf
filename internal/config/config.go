// Package config provides svmeval configuration loaded from environment variables.
package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/YuminosukeSato/rbfsvm/pkg/errors"
	"github.com/YuminosukeSato/rbfsvm/pkg/log"
	"github.com/joho/godotenv"
)

// Environment variables read by Load.
const (
	EnvModel             = "RBFSVM_MODEL"
	EnvScaling           = "RBFSVM_SCALING"
	EnvLogLevel          = "RBFSVM_LOG_LEVEL"
	EnvParallelThreshold = "RBFSVM_PARALLEL_THRESHOLD"
	EnvMaxWorkers        = "RBFSVM_MAX_WORKERS"
)

// DefaultParallelThreshold mirrors svm.DefaultParallelThreshold.
const DefaultParallelThreshold = 256

// Config holds all svmeval configuration. Flags override these values.
type Config struct {
	// ModelPath is a bundle (.json, .zst, .gob) or a libsvm model file.
	ModelPath string
	// ScalingPath is the scaler JSON accompanying a libsvm model.
	ScalingPath string
	LogLevel    string

	// Rows per batch above which prediction fans out across goroutines
	ParallelThreshold int

	// Worker cap for batch prediction; 0 means GOMAXPROCS
	MaxWorkers int
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
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

// Load reads configuration from environment variables. The given dotenv
// files (".env" when none are named) are loaded first if they exist;
// variables already set in the environment win. The result is not
// validated; call Validate once flag overrides have been applied.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to load .env file", log.ErrAttr(err))
	}

	cfg := &Config{
		ModelPath:         getEnv(EnvModel, ""),
		ScalingPath:       getEnv(EnvScaling, ""),
		LogLevel:          getEnv(EnvLogLevel, "warn"),
		ParallelThreshold: getEnvAsInt(EnvParallelThreshold, DefaultParallelThreshold),
		MaxWorkers:        getEnvAsInt(EnvMaxWorkers, 0),
	}
	return cfg, nil
}

// Validate checks value ranges. ModelPath is not required here since it may
// still come from a flag.
func (c *Config) Validate() error {
	if _, ok := log.ParseLevel(c.LogLevel); !ok {
		return errors.NewValidationError(EnvLogLevel, "must be one of debug, info, warn, error", c.LogLevel)
	}
	if c.ParallelThreshold <= 0 {
		return errors.NewValidationError(EnvParallelThreshold, "must be a positive integer", c.ParallelThreshold)
	}
	if c.MaxWorkers < 0 {
		return errors.NewValidationError(EnvMaxWorkers, "must not be negative", c.MaxWorkers)
	}
	return nil
}
