// internal/config/config.go
package config

import (
	"fmt"
	"os"
)

// Config carries everything the process needs from the environment. It is
// loaded once in main and injected; nothing reads env vars at call time.
type Config struct {
	Port string

	// Postgres document store
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	// Email gateway
	SendGridAPIKey string
	SenderEmail    string
	SenderName     string

	// Launch event publishing, optional. Empty disables it.
	AMQPUrl string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:           getenv("PORT", "8080"),
		DBUser:         os.Getenv("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBHost:         getenv("DB_HOST", "localhost"),
		DBPort:         getenv("DB_PORT", "5432"),
		DBName:         os.Getenv("DB_NAME"),
		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		SenderEmail:    os.Getenv("SENDER_EMAIL"),
		SenderName:     getenv("SENDER_NAME", "Campaign Mailer"),
		AMQPUrl:        os.Getenv("AMQP_URL"),
	}

	if cfg.DBName == "" {
		return nil, fmt.Errorf("DB_NAME is required")
	}
	if cfg.SenderEmail == "" {
		return nil, fmt.Errorf("SENDER_EMAIL is required (verified sender address)")
	}

	return cfg, nil
}

// DSN builds the Postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
