package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Server struct {
	Environment string `envconfig:"SERVICE_ENVIRONMENT" default:"development"`

	// ----------------------------
	// SMTP
	// ----------------------------
	SMTPHost     string `envconfig:"SMTP_HOST" default:"localhost"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"1025"`
	SMTPUser     string `envconfig:"SMTP_USER" default:""`
	SMTPPassword string `envconfig:"SMTP_PASSWORD" default:""`
	SMTPFrom     string `envconfig:"SMTP_FROM" default:"noreply@maildesk.local"`

	// ----------------------------
	// Workers
	// ----------------------------
	WorkerCount   int `envconfig:"WORKER_COUNT" default:"5"`
	RateLimit     int `envconfig:"RATE_LIMIT" default:"10"`
	RetryAttempts int `envconfig:"RETRY_ATTEMPTS" default:"3"`

	// ----------------------------
	// HTTP API
	// ----------------------------
	APIPort string `envconfig:"API_PORT" default:"8000"`

	// ----------------------------
	// Metrics
	// ----------------------------
	MetricsPort string `envconfig:"METRICS_PORT" default:"9090"`

	// ----------------------------
	// Database
	// ----------------------------
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// ----------------------------
	// AI providers
	// ----------------------------
	OpenAIAPIKey     string `envconfig:"OPENAI_API_KEY" default:""`
	OpenRouterAPIKey string `envconfig:"OPENROUTER_API_KEY" default:""`
	AIModel          string `envconfig:"AI_MODEL" default:"openai/gpt-4o-mini"`
}

type Console struct {
	Environment string `envconfig:"MAILDESK_ENV" default:"development"`
	APIURL      string `envconfig:"MAILDESK_API_URL" default:"http://localhost:8000/api"`
	AIProvider  string `envconfig:"MAILDESK_AI_PROVIDER" default:"OpenRouter"`
}

// LoadServer reads the backend configuration. A .env file in the working
// directory is applied first when present.
func LoadServer() (*Server, error) {
	_ = godotenv.Load()

	var cfg Server
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return &cfg, nil
}

func LoadConsole() (*Console, error) {
	_ = godotenv.Load()

	var cfg Console
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return &cfg, nil
}
