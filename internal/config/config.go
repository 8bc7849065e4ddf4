package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath    string
	OutputDir string
	LogLevel  string

	AIBaseURL       string
	AIAPIKey        string
	AIModel         string
	AITimeoutMs     int
	AIBatchSize     int
	AIMaxConcurrent int
	AIRateLimitRPS  int
	AIMaxLabelLen   int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),
		LogLevel:  getEnv("LOG_LEVEL", "info"),

		AIBaseURL:       getEnv("AI_API_BASE_URL", "https://api.openai.com/v1"),
		AIAPIKey:        getEnv("AI_API_KEY", ""),
		AIModel:         getEnv("AI_MODEL", "gpt-4o-mini"),
		AITimeoutMs:     getEnvInt("AI_TIMEOUT_MS", 30000),
		AIBatchSize:     getEnvInt("AI_BATCH_SIZE", 50),
		AIMaxConcurrent: getEnvInt("AI_MAX_CONCURRENT", 2),
		AIRateLimitRPS:  getEnvInt("AI_RATE_LIMIT_RPS", 5),
		AIMaxLabelLen:   getEnvInt("AI_MAX_LABEL_LEN", 50),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
