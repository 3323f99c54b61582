// Package config resolves process settings from the environment, with a
// .env file loaded first when present.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything the process reads from the environment.
type Config struct {
	AppPort      int
	StoreBackend string // mongo, postgres or memory
	MongoURL     string
	MongoDB      string
	DatabaseURL  string // postgres DSN, used when StoreBackend is postgres
	RedisURL     string // optional, enables the catalog cache
	NATSURL      string // optional, enables order events
	SeedOnStart  bool
	LogLevel     slog.Level
}

// Load reads .env when present and resolves every setting.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppPort:      getEnvAsInt("APP_PORT", 8080),
		StoreBackend: getEnv("STORE_BACKEND", "mongo"),
		MongoURL:     getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDB:      getEnv("MONGO_DB", "indie_store"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		RedisURL:     getEnv("REDIS_URL", ""),
		NATSURL:      getEnv("NATS_URL", ""),
		SeedOnStart:  getEnvAsBool("SEED_ON_START", true),
		LogLevel:     parseLogLevel(getEnv("LOG_LEVEL", "info")),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
