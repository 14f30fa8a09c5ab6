package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv            string
	Port              string
	DatabaseURL       string
	RedisAddr         string
	RedisPassword     string
	StoragePath       string
	StorageBaseURL    string
	FrontendURL       string
	FalAPIKey         string
	FalBaseURL        string
	ReplicateAPIToken string
	ReplicateBaseURL  string
	VisionTimeout     time.Duration
	SynthesisTimeout  time.Duration
	PollInterval      time.Duration
	PollMaxAttempts   int
	HTTPReadTimeout   time.Duration
	HTTPWriteTimeout  time.Duration
	HTTPIdleTimeout   time.Duration
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. Provider credentials stay optional here; the
// synthesis package decides at startup whether any provider is usable.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:            getEnv("APP_ENV", "development"),
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		StoragePath:       getEnv("STORAGE_PATH", "./storage"),
		StorageBaseURL:    getEnv("STORAGE_BASE_URL", "http://localhost:8080/static"),
		FrontendURL:       getEnv("FRONTEND_URL", "http://localhost:3000"),
		FalAPIKey:         os.Getenv("FAL_API_KEY"),
		FalBaseURL:        getEnv("FAL_BASE_URL", "https://api.fal.ai"),
		ReplicateAPIToken: os.Getenv("REPLICATE_API_TOKEN"),
		ReplicateBaseURL:  getEnv("REPLICATE_BASE_URL", "https://api.replicate.com/v1"),
		VisionTimeout:     time.Second * time.Duration(getEnvInt("VISION_TIMEOUT_SECONDS", 30)),
		SynthesisTimeout:  time.Second * time.Duration(getEnvInt("SYNTHESIS_TIMEOUT_SECONDS", 120)),
		PollInterval:      time.Second * time.Duration(getEnvInt("POLL_INTERVAL_SECONDS", 1)),
		PollMaxAttempts:   getEnvInt("POLL_MAX_ATTEMPTS", 120),
		HTTPReadTimeout:   time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:  time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:   time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
