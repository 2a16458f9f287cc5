// Package config reads service configuration from the environment, loading
// a .env file first when one is present.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Ingest   IngestConfig
	Remote   RemoteConfig
	Gemini   GeminiConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	// Enabled turns persistence off entirely; the service then returns
	// transactions without writing them.
	Enabled bool
}

type StorageConfig struct {
	BasePath      string
	RetentionDays int
}

type IngestConfig struct {
	// AugmentByDefault applies when an upload does not say either way.
	AugmentByDefault bool
	// Provider selects the remote classifier: "http" or "gemini".
	Provider string
}

// RemoteConfig points at the black-box HTTP classification service.
type RemoteConfig struct {
	Endpoint       string
	TimeoutSeconds int
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "localhost"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvAsInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", "postgres"),
			Database: getEnv("POSTGRES_DB", "statements-dev"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
			Enabled:  getEnvAsBool("POSTGRES_ENABLED", true),
		},
		Storage: StorageConfig{
			BasePath:      getEnv("UPLOADS_PATH", "./uploads"),
			RetentionDays: getEnvAsInt("UPLOADS_RETENTION_DAYS", 30),
		},
		Ingest: IngestConfig{
			AugmentByDefault: getEnvAsBool("INGEST_AUGMENT_BY_DEFAULT", false),
			Provider:         getEnv("INGEST_PROVIDER", "http"),
		},
		Remote: RemoteConfig{
			Endpoint:       getEnv("CLASSIFIER_ENDPOINT", ""),
			TimeoutSeconds: getEnvAsInt("CLASSIFIER_TIMEOUT_SECONDS", 60),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		},
	}

	switch cfg.Ingest.Provider {
	case "http", "gemini":
	default:
		return nil, fmt.Errorf("INGEST_PROVIDER must be http or gemini, got %q", cfg.Ingest.Provider)
	}
	if cfg.Ingest.Provider == "gemini" && cfg.Gemini.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required when INGEST_PROVIDER=gemini")
	}

	return cfg, nil
}

// DSN returns the database connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}
