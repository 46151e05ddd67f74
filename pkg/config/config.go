package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the application configuration
type Config struct {
	Environment string
	ServerPort  int
	LogLevel    string

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret string
	// TokenTTLMinutes of 0 issues tokens without expiry, matching the
	// historical behavior clients may depend on.
	TokenTTLMinutes int

	// RedisURL enables the entity read cache when non-empty.
	RedisURL        string
	CacheTTLSeconds int

	StatsIntervalMinutes int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	port, err := intEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	dbPort, err := intEnv("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}
	tokenTTL, err := intEnv("TOKEN_TTL_MINUTES", 0)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := intEnv("CACHE_TTL_SECONDS", 60)
	if err != nil {
		return nil, err
	}
	statsInterval, err := intEnv("STATS_INTERVAL_MINUTES", 1)
	if err != nil {
		return nil, err
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return &Config{
		Environment:          getEnv("ENVIRONMENT", "development"),
		ServerPort:           port,
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		DBHost:               getEnv("DB_HOST", "localhost"),
		DBPort:               dbPort,
		DBUser:               getEnv("DB_USER", "projecthub"),
		DBPassword:           getEnv("DB_PASSWORD", ""),
		DBName:               getEnv("DB_NAME", "projecthub"),
		DBSSLMode:            getEnv("DB_SSLMODE", "disable"),
		JWTSecret:            secret,
		TokenTTLMinutes:      tokenTTL,
		RedisURL:             os.Getenv("REDIS_URL"),
		CacheTTLSeconds:      cacheTTL,
		StatsIntervalMinutes: statsInterval,
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func intEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
