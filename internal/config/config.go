// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Port                string
	DBPath              string
	SpotifyClientID     string
	SpotifyClientSecret string
	SpotifyBaseURL      string
	SpotifyMaxRetries   int
	SpotifyRetryBackoff time.Duration
	AnalysisWorkers     int
	DisableAutoFetch    bool
}

// Load reads configuration from a .env file (if present) and environment
// variables.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		Port:                getEnv("PORT", "8080"),
		DBPath:              getEnv("DB_PATH", "rotation.db"),
		SpotifyClientID:     os.Getenv("SPOTIFY_CLIENT_ID"),
		SpotifyClientSecret: os.Getenv("SPOTIFY_CLIENT_SECRET"),
		SpotifyBaseURL:      getEnv("SPOTIFY_BASE_URL", ""),
		SpotifyMaxRetries:   getEnvInt("SPOTIFY_MAX_RETRIES", 3),
		SpotifyRetryBackoff: time.Duration(getEnvInt("SPOTIFY_RETRY_BACKOFF_MS", 500)) * time.Millisecond,
		AnalysisWorkers:     getEnvInt("ANALYSIS_WORKERS", 2),
		DisableAutoFetch:    getEnvBool("DISABLE_AUTO_FETCH", false),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
