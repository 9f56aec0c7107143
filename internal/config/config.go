package config

import (
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Port        string
	MongoURI    string
	Environment string

	// CORS
	AllowedOrigins string

	// Seed catalog override; empty means the embedded catalog
	SeedFile string

	// Aggregate read-model cache TTL in seconds
	StatsCacheTTL int
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "7777"),
		MongoURI:       getEnv("MONGODB_URI", "mongodb://localhost:27017/contexthub"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", ""),
		SeedFile:       getEnv("SEED_FILE", ""),
		StatsCacheTTL:  getIntEnv("STATS_CACHE_TTL_SECONDS", 30),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
