package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string
	LogLevel       string

	RedisURL        string
	RateLimitWindow time.Duration

	ScraperUserAgent  string
	ScraperTimeout    time.Duration
	ScraperMaxRetries uint64

	RulesFile string
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "production"),
		Port:           getEnv("PORT", "3001"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),

		RedisURL: os.Getenv("REDIS_URL"),

		ScraperUserAgent: os.Getenv("SCRAPER_USER_AGENT"),
		RulesFile:        os.Getenv("ARCADE_RULES_FILE"),
	}

	var err error
	cfg.RateLimitWindow, err = parseDuration(getEnv("RATE_LIMIT_WINDOW", "2s"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_WINDOW: %w", err)
	}
	cfg.ScraperTimeout, err = parseDuration(getEnv("SCRAPER_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCRAPER_TIMEOUT: %w", err)
	}
	cfg.ScraperMaxRetries, err = strconv.ParseUint(getEnv("SCRAPER_MAX_RETRIES", "2"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid SCRAPER_MAX_RETRIES: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func parseDuration(s string) (time.Duration, error) {
	return time.ParseDuration(s)
}
