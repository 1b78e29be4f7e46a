// Package config provides application configuration management,
// loading settings from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/stuartshay/route-optimizer/internal/optimizer"
)

// Config holds all configuration for the application
type Config struct {
	// Service configuration
	ServiceName string
	Environment string
	GRPCPort    string
	HTTPPort    string

	// Database configuration
	PostgresHost     string
	PostgresPort     string
	PostgresDB       string
	PostgresUser     string
	PostgresPassword string

	// Report output path (CSV and XLSX)
	ReportOutputPath string

	// OpenTelemetry configuration
	OTELEndpoint    string
	OTELEnabled     bool
	OTELSampleRatio float64

	// Logging
	LogLevel string

	// Planning job workers
	WorkerCount int

	// Solver tuning
	MaxDestinations    int
	BruteForceMaxStops int
	ExactSearchLimit   int
	TwoOptPassFactor   int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		ServiceName: getEnv("SERVICE_NAME", "route-optimizer"),
		Environment: getEnv("ENVIRONMENT", "development"),
		GRPCPort:    getEnv("GRPC_PORT", "50051"),
		HTTPPort:    getEnv("HTTP_PORT", "8080"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresDB:       getEnv("POSTGRES_DB", "dispatch"),
		PostgresUser:     getEnv("POSTGRES_USER", "development"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "development"),

		ReportOutputPath: getEnv("REPORT_OUTPUT_PATH", "/data/reports"),
		OTELEndpoint:     getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}

	var err error
	cfg.OTELEnabled, err = parseBool("OTEL_ENABLED", "true")
	if err != nil {
		return nil, fmt.Errorf("invalid OTEL_ENABLED: %w", err)
	}

	cfg.OTELSampleRatio, err = parseFloat("OTEL_TRACES_SAMPLER_RATIO", "1.0")
	if err != nil {
		return nil, fmt.Errorf("invalid OTEL_TRACES_SAMPLER_RATIO: %w", err)
	}

	cfg.WorkerCount, err = parsePositiveInt("WORKER_COUNT", "2")
	if err != nil {
		return nil, fmt.Errorf("invalid WORKER_COUNT: %w", err)
	}

	cfg.MaxDestinations, err = parsePositiveInt("MAX_DESTINATIONS", "50")
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_DESTINATIONS: %w", err)
	}

	cfg.BruteForceMaxStops, err = parsePositiveInt("BRUTE_FORCE_MAX_STOPS", strconv.Itoa(optimizer.DefaultBruteForceThreshold))
	if err != nil {
		return nil, fmt.Errorf("invalid BRUTE_FORCE_MAX_STOPS: %w", err)
	}

	cfg.ExactSearchLimit, err = parsePositiveInt("EXACT_SEARCH_LIMIT", strconv.Itoa(optimizer.DefaultExactSearchLimit))
	if err != nil {
		return nil, fmt.Errorf("invalid EXACT_SEARCH_LIMIT: %w", err)
	}

	cfg.TwoOptPassFactor, err = parsePositiveInt("TWO_OPT_PASS_FACTOR", strconv.Itoa(optimizer.DefaultTwoOptPassFactor))
	if err != nil {
		return nil, fmt.Errorf("invalid TWO_OPT_PASS_FACTOR: %w", err)
	}

	return cfg, nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s dbname=%s user=%s password=%s sslmode=disable",
		c.PostgresHost,
		c.PostgresPort,
		c.PostgresDB,
		c.PostgresUser,
		c.PostgresPassword,
	)
}

// OptimizerOptions returns the solver tuning as optimizer options
func (c *Config) OptimizerOptions() optimizer.Options {
	return optimizer.Options{
		BruteForceThreshold: c.BruteForceMaxStops,
		ExactSearchLimit:    c.ExactSearchLimit,
		TwoOptPassFactor:    c.TwoOptPassFactor,
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parsePositiveInt parses an int greater than zero from an environment variable or default value
func parsePositiveInt(key, defaultValue string) (int, error) {
	value, err := strconv.Atoi(getEnv(key, defaultValue))
	if err != nil {
		return 0, err
	}
	if value < 1 {
		return 0, fmt.Errorf("must be at least 1, got %d", value)
	}
	return value, nil
}

// parseFloat parses a float64 from an environment variable or default value
func parseFloat(key, defaultValue string) (float64, error) {
	value := getEnv(key, defaultValue)
	return strconv.ParseFloat(value, 64)
}

// parseBool parses a bool from an environment variable or default value
func parseBool(key, defaultValue string) (bool, error) {
	return strconv.ParseBool(getEnv(key, defaultValue))
}
