package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Mail     MailConfig
	Events   EventsConfig
	LogLevel string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

type DatabaseConfig struct {
	// URL is a Postgres connection string. When empty the server runs
	// with the in-memory catalog store (dev mode, nothing persists).
	URL string
}

type MailConfig struct {
	SendGridAPIKey string
	SenderAddress  string
	SenderName     string
	SellerAddress  string // fixed recipient for new-order notifications
	SendTimeout    int    // seconds, per individual send
}

type EventsConfig struct {
	// AMQPURL enables the order-placed publisher when set.
	AMQPURL   string
	QueueName string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Mail: MailConfig{
			SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
			SenderAddress:  getEnv("EMAIL_SENDER", "no-reply@feriavaleria.com"),
			SenderName:     getEnv("EMAIL_SENDER_NAME", "Feria Americana"),
			SellerAddress:  getEnv("EMAIL_RECIPIENT", ""),
			SendTimeout:    getEnvAsInt("EMAIL_SEND_TIMEOUT", 10),
		},
		Events: EventsConfig{
			AMQPURL:   getEnv("AMQP_URL", ""),
			QueueName: getEnv("ORDER_QUEUE", "orders"),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Mail.SellerAddress == "" {
		return fmt.Errorf("EMAIL_RECIPIENT is required (seller notification address)")
	}

	if c.Mail.SendTimeout <= 0 {
		return fmt.Errorf("EMAIL_SEND_TIMEOUT must be positive")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
