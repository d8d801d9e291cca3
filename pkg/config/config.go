package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the application configuration
type Config struct {
	Environment            string
	ServerPort             int
	LogLevel               string
	CORSAllowedOrigins     []string
	JWTSecret              string
	JWTIssuer              string
	TokenTTLHours          int
	RedisURL               string
	StatusRefreshSeconds   int
	StatusCacheTTLSeconds  int
	LoginRateLimit         int
	LoginRateWindowSeconds int
	Database               DatabaseConfig
}

// DatabaseConfig holds postgres connection settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	port, err := strconv.Atoi(getEnv("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	tokenTTL, err := strconv.Atoi(getEnv("TOKEN_TTL_HOURS", "24"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL_HOURS: %w", err)
	}

	statusRefresh, err := strconv.Atoi(getEnv("STATUS_REFRESH_SECONDS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid STATUS_REFRESH_SECONDS: %w", err)
	}

	statusCacheTTL, err := strconv.Atoi(getEnv("STATUS_CACHE_TTL_SECONDS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid STATUS_CACHE_TTL_SECONDS: %w", err)
	}

	loginRateLimit, err := strconv.Atoi(getEnv("LOGIN_RATE_LIMIT", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOGIN_RATE_LIMIT: %w", err)
	}

	loginRateWindow, err := strconv.Atoi(getEnv("LOGIN_RATE_WINDOW_SECONDS", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOGIN_RATE_WINDOW_SECONDS: %w", err)
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	return &Config{
		Environment:            getEnv("ENVIRONMENT", "development"),
		ServerPort:             port,
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins:     parseCSVEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
		JWTSecret:              os.Getenv("JWT_SECRET"),
		JWTIssuer:              getEnv("JWT_ISSUER", "harbormaster"),
		TokenTTLHours:          tokenTTL,
		RedisURL:               getEnv("REDIS_URL", "redis://localhost:6379"),
		StatusRefreshSeconds:   statusRefresh,
		StatusCacheTTLSeconds:  statusCacheTTL,
		LoginRateLimit:         loginRateLimit,
		LoginRateWindowSeconds: loginRateWindow,
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "harbormaster"),
			Password: getEnv("DB_PASSWORD", "dev"),
			Database: getEnv("DB_NAME", "harbormaster"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseCSVEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
