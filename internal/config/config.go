// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits with an error.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the application service.
type Config struct {
	Port                 string
	DatabaseURL          string
	RedisURL             string
	PlatformFeePct       float64 // platform cut of each job payment, in percent
	RetryIntervalMinutes int     // how often the redelivery worker fires
}

// Load reads environment variables and returns a validated Config.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	feePct := 10.0
	if s := os.Getenv("PLATFORM_FEE_PCT"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v <= 0 || v >= 100 {
			return nil, fmt.Errorf("PLATFORM_FEE_PCT must be a percentage in (0, 100), got %q", s)
		}
		feePct = v
	}

	interval := 5
	if s := os.Getenv("RETRY_INTERVAL_MINUTES"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("RETRY_INTERVAL_MINUTES must be a positive integer, got %q", s)
		}
		interval = v
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	return &Config{
		Port:                 port,
		DatabaseURL:          dbURL,
		RedisURL:             redisURL,
		PlatformFeePct:       feePct,
		RetryIntervalMinutes: interval,
	}, nil
}
