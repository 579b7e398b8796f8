package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration
type Config struct {
	TelegramToken string

	// Search defaults
	DefaultOrigin      string
	DefaultDestination string
	DefaultDays        int

	// Provider configuration
	ProviderBaseURL string
	ProxyURL        string // optional, routes provider requests through a proxy
	RetryAttempts   int
	RetryDelay      time.Duration
	RequestsPerSec  float64

	// ClickHouse configuration
	ClickHouseHost     string
	ClickHousePort     int
	ClickHouseDatabase string
	ClickHouseUser     string
	ClickHousePassword string
	ClickHouseUseTLS   bool

	UseMockDB bool
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	config := &Config{}

	// Telegram Bot Token (required)
	config.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if config.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	// Search defaults
	config.DefaultOrigin = getEnv("DEFAULT_ORIGIN", "THR")
	config.DefaultDestination = getEnv("DEFAULT_DESTINATION", "SYZ")

	days, err := getEnvInt("DEFAULT_DAYS", 7)
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_DAYS: %w", err)
	}
	if days < 1 {
		return nil, fmt.Errorf("DEFAULT_DAYS must be at least 1, got %d", days)
	}
	config.DefaultDays = days

	// Provider configuration
	config.ProviderBaseURL = getEnv("PROVIDER_BASE_URL", "https://ws.alibaba.ir")
	config.ProxyURL = os.Getenv("PROXY_URL")

	config.RetryAttempts, err = getEnvInt("PROVIDER_RETRY_ATTEMPTS", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid PROVIDER_RETRY_ATTEMPTS: %w", err)
	}

	delaySec, err := getEnvInt("PROVIDER_RETRY_DELAY_SECONDS", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid PROVIDER_RETRY_DELAY_SECONDS: %w", err)
	}
	config.RetryDelay = time.Duration(delaySec) * time.Second

	rpsStr := getEnv("PROVIDER_REQUESTS_PER_SECOND", "2")
	rps, err := strconv.ParseFloat(rpsStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid PROVIDER_REQUESTS_PER_SECOND: %w", err)
	}
	config.RequestsPerSec = rps

	// Use Mock DB (default: true, the bot works without ClickHouse)
	config.UseMockDB = getEnv("USE_MOCK_DB", "true") == "true"

	// ClickHouse configuration (required if not using mock)
	if !config.UseMockDB {
		config.ClickHouseHost = os.Getenv("CLICKHOUSE_HOST")
		if config.ClickHouseHost == "" {
			return nil, fmt.Errorf("CLICKHOUSE_HOST is required when USE_MOCK_DB is not set")
		}

		config.ClickHousePort, err = getEnvInt("CLICKHOUSE_PORT", 9000)
		if err != nil {
			return nil, fmt.Errorf("invalid CLICKHOUSE_PORT: %w", err)
		}

		config.ClickHouseDatabase = getEnv("CLICKHOUSE_DATABASE", "default")
		config.ClickHouseUser = getEnv("CLICKHOUSE_USER", "default")
		config.ClickHousePassword = os.Getenv("CLICKHOUSE_PASSWORD")
		// Password is optional, can be empty

		config.ClickHouseUseTLS = os.Getenv("CLICKHOUSE_USE_TLS") == "true"
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(value)
}
