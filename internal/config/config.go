// Package config loads service configuration from environment variables.
// Collaborators receive their piece of the config at construction time;
// nothing reads the environment after startup.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Gemini  GeminiConfig
	Auth    AuthConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr    string
	BaseURL string // external base URL used to build share links
}

// StorageConfig holds split store settings.
type StorageConfig struct {
	DBPath string
}

// GeminiConfig holds extractor settings.
type GeminiConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
}

// AuthConfig holds credential settings.
type AuthConfig struct {
	APIKey      string // static bearer key callers must present
	ShareSecret string // HMAC secret for share tokens
}

// Load builds a Config from environment variables, applying defaults.
// It fails when a credential required for startup is missing.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Addr:    getEnv("ADDR", ":8080"),
			BaseURL: getEnv("APP_BASE_URL", "http://localhost:8080"),
		},
		Storage: StorageConfig{
			DBPath: getEnv("DB_PATH", "./data/splits.db"),
		},
		Gemini: GeminiConfig{
			APIKey:      getEnv("GEMINI_API_KEY", ""),
			Model:       getEnv("GEMINI_MODEL_NAME", "gemini-1.5-flash"),
			BaseURL:     getEnv("GEMINI_BASE_URL", ""),
			Temperature: getEnvAsFloat32("GEMINI_TEMPERATURE", 0.1),
			Timeout:     getEnvAsDuration("GEMINI_TIMEOUT", 45*time.Second),
		},
		Auth: AuthConfig{
			APIKey:      getEnv("API_KEY", ""),
			ShareSecret: getEnv("SHARE_SECRET", ""),
		},
	}

	if cfg.Auth.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable is not set")
	}
	if cfg.Auth.ShareSecret == "" {
		return nil, fmt.Errorf("SHARE_SECRET environment variable is not set")
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(f)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
