package config

import (
	"os"
	"strconv"
	"time"
)

// Application settings
type Config struct {
	Server   ServerConfig
	Logging  LoggingConfig
	Store    StoreConfig
	Tracking TrackingConfig
	Campaign CampaignConfig
	Admin    AdminConfig
}

// Server settings
type ServerConfig struct {
	Port           string
	RequestTimeout time.Duration
}

// Remote key-value store settings
type StoreConfig struct {
	BaseURL            string
	Token              string
	RequestTimeout     time.Duration
	RateLimitPerSecond int
	RateLimitBurst     int
}

// Metrics buffer settings
type TrackingConfig struct {
	FlushInterval  time.Duration
	FlushThreshold int
}

// Campaign defaults
type CampaignConfig struct {
	DefaultVertical string
	DefaultLang     string
}

// Admin API settings
type AdminConfig struct {
	Token string
}

// Logging settings
type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			RequestTimeout: getDurationEnv("REQUEST_TIMEOUT", "30s"),
		},
		Store: StoreConfig{
			BaseURL:            getEnv("KV_REST_URL", ""),
			Token:              getEnv("KV_REST_TOKEN", ""),
			RequestTimeout:     getDurationEnv("KV_REQUEST_TIMEOUT", "5s"),
			RateLimitPerSecond: getIntEnv("KV_RATE_LIMIT_PER_SECOND", 100),
			RateLimitBurst:     getIntEnv("KV_RATE_LIMIT_BURST", 10),
		},
		Tracking: TrackingConfig{
			FlushInterval:  getDurationEnv("FLUSH_INTERVAL", "30s"),
			FlushThreshold: getIntEnv("FLUSH_THRESHOLD", 100),
		},
		Campaign: CampaignConfig{
			DefaultVertical: getEnv("DEFAULT_VERTICAL", "health"),
			DefaultLang:     getEnv("DEFAULT_LANG", "en"),
		},
		Admin: AdminConfig{
			Token: getEnv("ADMIN_TOKEN", ""),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
