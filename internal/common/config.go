package common

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Validation ValidationConfig
	Storage    StorageConfig
	LogLevel   string
}

// ValidationConfig holds validation-related configuration
type ValidationConfig struct {
	ConfigPath      string
	MinConfidence   float64
	AmountTolerance float64
}

// StorageConfig holds persistence-related configuration
type StorageConfig struct {
	DBPath    string
	ExportDir string
	// ExportLimit caps how many stored results an export includes;
	// 0 exports everything.
	ExportLimit int
}

// LoadConfig loads configuration from environment variables, reading a
// local .env first when present.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Validation: ValidationConfig{
			ConfigPath: getEnv("VALIDATION_CONFIG_PATH", "validation_config.json"),
			// 0 means "defer to the validation config document".
			MinConfidence:   getEnvAsFloat("MIN_CONFIDENCE", 0),
			AmountTolerance: getEnvAsFloat("AMOUNT_TOLERANCE", 0),
		},
		Storage: StorageConfig{
			DBPath:      getEnv("DB_PATH", "receiptcheck.db"),
			ExportDir:   getEnv("EXPORT_DIR", "./out"),
			ExportLimit: getEnvAsInt("EXPORT_LIMIT", 0),
		},
		LogLevel: getEnv("LOG_LEVEL", "INFO"),
	}
}

// Helper functions for environment variable parsing
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
