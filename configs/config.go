package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds the application configuration
type Config struct {
	Port                   string
	Environment            string
	APIKey                 string
	AdminUsername          string
	AdminPassword          string
	LogLevel               string
	LogPretty              bool
	PresetsFile            string
	CatalogFile            string
	MaxScenariosPerSession int
	ComparisonWindow       int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Port:                   getEnv("PORT", "8080"),
		Environment:            getEnv("ENVIRONMENT", "development"),
		APIKey:                 getEnv("API_KEY", ""),
		AdminUsername:          getEnv("ADMIN_USERNAME", ""),
		AdminPassword:          getEnv("ADMIN_PASSWORD", ""),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		LogPretty:              getEnvBool("LOG_PRETTY", false),
		PresetsFile:            getEnv("PRESETS_FILE", ""),
		CatalogFile:            getEnv("CATALOG_FILE", ""),
		MaxScenariosPerSession: getEnvInt("MAX_SCENARIOS_PER_SESSION", 50),
		ComparisonWindow:       getEnvInt("COMPARISON_WINDOW", 5),
	}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt falls back to the default when the value is missing, malformed or not positive
func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return defaultValue
	}
	return value
}
