package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                      string
	DBPath                    string
	LogLevel                  string
	LogFormat                 string
	QuestionCount             int
	AssessmentDurationSeconds int
	PublishWorkerCount        int
	PublishQueueSize          int
	PublishMaxAttempts        int
	AMQPURL                   string
	AMQPExchange              string
	CORSOrigins               []string
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                      envOr("ADDR", ":8080"),
		DBPath:                    envOr("DB_PATH", "file:prepdash.db"),
		LogLevel:                  envOr("LOG_LEVEL", "INFO"),
		LogFormat:                 envOr("LOG_FORMAT", "text"),
		QuestionCount:             envIntOr("QUESTION_COUNT", 10),
		AssessmentDurationSeconds: envIntOr("ASSESSMENT_DURATION_SECONDS", 600),
		PublishWorkerCount:        envIntOr("PUBLISH_WORKER_COUNT", 2),
		PublishQueueSize:          envIntOr("PUBLISH_QUEUE_SIZE", 64),
		PublishMaxAttempts:        envIntOr("PUBLISH_MAX_ATTEMPTS", 3),
		AMQPURL:                   envOr("AMQP_URL", ""),
		AMQPExchange:              envOr("AMQP_EXCHANGE", "prepdash.events"),
		CORSOrigins:               envListOr("CORS_ORIGINS", []string{"http://localhost:5173"}),
	}
}

// Validate checks the values Load cannot repair on its own.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.QuestionCount < 1 || c.QuestionCount > 100 {
		return fmt.Errorf("QUESTION_COUNT must be between 1 and 100, got %d", c.QuestionCount)
	}
	if c.AssessmentDurationSeconds < 1 {
		return fmt.Errorf("ASSESSMENT_DURATION_SECONDS must be positive, got %d", c.AssessmentDurationSeconds)
	}
	if c.PublishWorkerCount < 1 {
		return fmt.Errorf("PUBLISH_WORKER_COUNT must be at least 1, got %d", c.PublishWorkerCount)
	}
	if c.PublishQueueSize < 1 {
		return fmt.Errorf("PUBLISH_QUEUE_SIZE must be at least 1, got %d", c.PublishQueueSize)
	}
	if c.PublishMaxAttempts < 1 {
		return fmt.Errorf("PUBLISH_MAX_ATTEMPTS must be at least 1, got %d", c.PublishMaxAttempts)
	}
	if c.AMQPURL != "" && c.AMQPExchange == "" {
		return fmt.Errorf("AMQP_EXCHANGE cannot be empty when AMQP_URL is set")
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be 'text' or 'json', got %q", c.LogFormat)
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

func envListOr(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
