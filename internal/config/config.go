package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr              string `validate:"required"`
	DBPath            string `validate:"required"`
	LogLevel          string `validate:"oneof=DEBUG INFO WARN ERROR"`
	StudyBatchLimit   int    `validate:"min=1,max=100"`
	SessionTTLMinutes int    `validate:"min=1"`
	SweepIntervalSecs int    `validate:"min=1"`
	StatsWorkerCount  int    `validate:"min=1"`
	StatsQueueSize    int    `validate:"min=1"`
	ReviewHistoryMax  int    `validate:"min=1"`
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:              envOr("ADDR", ":8080"),
		DBPath:            envOr("DB_PATH", "file:studydeck.db"),
		LogLevel:          envOr("LOG_LEVEL", "INFO"),
		StudyBatchLimit:   envIntOr("STUDY_BATCH_LIMIT", 20),
		SessionTTLMinutes: envIntOr("SESSION_TTL_MINUTES", 60),
		SweepIntervalSecs: envIntOr("SESSION_SWEEP_INTERVAL_SECS", 60),
		StatsWorkerCount:  envIntOr("STATS_WORKER_COUNT", 1),
		StatsQueueSize:    envIntOr("STATS_QUEUE_SIZE", 32),
		ReviewHistoryMax:  envIntOr("REVIEW_HISTORY_MAX", 50),
	}
}

var validate = validator.New()

// Validate checks the loaded configuration before the server starts.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
