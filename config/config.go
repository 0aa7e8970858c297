package config

import (
	"os"
	"strconv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	SMS      SMSConfig
	Storage  StorageConfig
}

type ServerConfig struct {
	Port    string
	GinMode string
}

// DatabaseConfig selects the persistence backend: when URL is empty the
// server runs on the local file store instead of Postgres.
type DatabaseConfig struct {
	URL     string
	DataDir string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

// SMSConfig seeds the default SMS settings document and points dispatch at
// the gateway. RelayURL, when set, proxies sends through an intermediary so
// the API key never travels with client traffic.
type SMSConfig struct {
	APIKey     string
	LineNumber string
	Enabled    bool
	RelayURL   string
}

// StorageConfig configures attachment hosting. With an empty CloudinaryURL
// attachments are inlined as data: URLs.
type StorageConfig struct {
	CloudinaryURL string
}

var AppConfig *Config

func Load() {
	AppConfig = &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		Database: DatabaseConfig{
			URL:     getEnv("DB_URL", ""),
			DataDir: getEnv("DATA_DIR", "./data"),
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", "change-this-secret-in-production"),
			ExpiryHours: getEnvAsInt("JWT_EXPIRY_HOURS", 24),
		},
		SMS: SMSConfig{
			APIKey:     getEnv("SMS_API_KEY", ""),
			LineNumber: getEnv("SMS_LINE_NUMBER", ""),
			Enabled:    getEnvAsBool("SMS_ENABLED", true),
			RelayURL:   getEnv("SMS_RELAY_URL", ""),
		},
		Storage: StorageConfig{
			CloudinaryURL: getEnv("CLOUDINARY_URL", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
