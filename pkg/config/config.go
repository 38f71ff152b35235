package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Predictor PredictorConfig
	Trends    TrendsConfig
	Loyalty   LoyaltyConfig
	OTEL      OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host        string
	Port        int
	Environment string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// PredictorConfig holds external loyalty classifier configuration
type PredictorConfig struct {
	Provider string // "http" or "mock"
	URL      string
	APIKey   string
}

// TrendsConfig holds trend signal source configuration
type TrendsConfig struct {
	Source   string // "file", "synthetic", or "none"
	FilePath string
	Keywords []string
	Geo      string
}

// LoyaltyConfig holds the training-time loyalty labeling criteria
type LoyaltyConfig struct {
	FrequencyThreshold int
	MonetaryPercentile float64
	RecencyPercentile  float64
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// defaultTrendKeywords are the retail search terms tracked by default.
var defaultTrendKeywords = []string{
	"online shopping",
	"retail therapy",
	"gift shopping",
	"home decor",
	"christmas shopping",
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			Port:        getEnvAsInt("SERVER_PORT", 8080),
			Environment: getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "loyalty_insights"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Predictor: PredictorConfig{
			Provider: getEnv("PREDICTOR_PROVIDER", "mock"),
			URL:      getEnv("PREDICTOR_URL", ""),
			APIKey:   getEnv("PREDICTOR_API_KEY", ""),
		},
		Trends: TrendsConfig{
			Source:   getEnv("TRENDS_SOURCE", "none"),
			FilePath: getEnv("TRENDS_FILE", "config/monthly_trends.json"),
			Keywords: getEnvAsList("TRENDS_KEYWORDS", defaultTrendKeywords),
			Geo:      getEnv("TRENDS_GEO", "GB"),
		},
		Loyalty: LoyaltyConfig{
			FrequencyThreshold: getEnvAsInt("LOYALTY_FREQUENCY_THRESHOLD", 3),
			MonetaryPercentile: getEnvAsFloat("LOYALTY_MONETARY_PERCENTILE", 0.25),
			RecencyPercentile:  getEnvAsFloat("LOYALTY_RECENCY_PERCENTILE", 0.75),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "loyalty-insights"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}, nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
