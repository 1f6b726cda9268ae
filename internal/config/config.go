package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	APIPort   string
	LogLevel  string
	LogFormat string

	DBDriver string
	DBDSN    string

	UploadDir      string
	MaxUploadBytes int64

	APIRateLimitRPS   float64
	APIRateLimitBurst int
	APIMaxConnections int

	NATSURL     string
	NATSSubject string

	ValkeyAddr      string
	ValkeyPassword  string
	CacheTTLSeconds int

	FeedbackPath      string
	WorkerMetricsPort string

	TrainerURL string
}

// Load reads the environment, after merging an optional .env file from the working directory.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		APIPort:   mustEnv("API_PORT", "5000"),
		LogLevel:  mustEnv("LOG_LEVEL", "info"),
		LogFormat: mustEnv("LOG_FORMAT", "json"),

		DBDriver: mustEnv("DB_DRIVER", "sqlite"),
		DBDSN:    mustEnv("DB_DSN", "instance/app.db"),

		UploadDir:      mustEnv("UPLOAD_DIR", "uploads"),
		MaxUploadBytes: mustEnvInt64("MAX_UPLOAD_BYTES", 10<<20),

		APIRateLimitRPS:   mustEnvFloat("API_RATE_LIMIT_RPS", 0),
		APIRateLimitBurst: mustEnvInt("API_RATE_LIMIT_BURST", 20),
		APIMaxConnections: mustEnvInt("API_MAX_CONNECTIONS", 256),

		NATSURL:     mustEnv("NATS_URL", ""),
		NATSSubject: mustEnv("NATS_SUBJECT", "summaries.events"),

		ValkeyAddr:      mustEnv("VALKEY_ADDR", ""),
		ValkeyPassword:  mustEnv("VALKEY_PASSWORD", ""),
		CacheTTLSeconds: mustEnvInt("CACHE_TTL_SECONDS", 3600),

		FeedbackPath:      mustEnv("FEEDBACK_PATH", "./data/feedback.jsonl"),
		WorkerMetricsPort: mustEnv("WORKER_METRICS_PORT", "9090"),

		TrainerURL: mustEnv("TRAINER_URL", "http://localhost:8000"),
	}
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
