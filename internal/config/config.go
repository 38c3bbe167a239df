package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	SQLiteDBPath string

	// Remote catalog service
	CatalogBaseURL string
	CatalogTimeout time.Duration

	// AMQP (optional; empty URL disables event publishing)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Balance
	Allowance float64

	// Catalog response caching
	CatalogCacheTTL time.Duration
}

func Load() *Config {
	cfg := &Config{
		Port:         getEnv("PORT", "8082"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/remit.db"),

		CatalogBaseURL: getEnv("CATALOG_BASE_URL", "http://localhost:3000/"),
		CatalogTimeout: getEnvDuration("CATALOG_TIMEOUT", 10*time.Second),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "remitconnect"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "transfer_recorded"),

		Allowance: getEnvFloat("ALLOWANCE", 5000.0),

		CatalogCacheTTL: getEnvDuration("CATALOG_CACHE_TTL", 5*time.Minute),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate SQLite configuration
	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	} else {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	// Validate catalog base URL
	if c.CatalogBaseURL == "" {
		errors = append(errors, "catalog base URL cannot be empty")
	} else if parsedURL, err := url.Parse(c.CatalogBaseURL); err != nil {
		errors = append(errors, fmt.Sprintf("invalid catalog base URL '%s': %v", c.CatalogBaseURL, err))
	} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		errors = append(errors, fmt.Sprintf("invalid catalog base URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
	}

	if c.CatalogTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid catalog timeout %v: must be at least 1 second", c.CatalogTimeout))
	} else if c.CatalogTimeout > time.Minute {
		errors = append(errors, fmt.Sprintf("invalid catalog timeout %v: must be at most 1 minute", c.CatalogTimeout))
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}

		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Validate allowance
	if c.Allowance <= 0 {
		errors = append(errors, fmt.Sprintf("invalid allowance %v: must be positive", c.Allowance))
	}

	if c.CatalogCacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid catalog cache TTL %v: must be at least 1 second", c.CatalogCacheTTL))
	} else if c.CatalogCacheTTL > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid catalog cache TTL %v: must be at most 24 hours", c.CatalogCacheTTL))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
