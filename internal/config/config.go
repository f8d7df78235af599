package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents the application configuration
type Config struct {
	// API contains API server configuration
	API APIConfig
	// Database contains database configuration
	Database DatabaseConfig
	// Entsoe contains the upstream market API configuration
	Entsoe EntsoeConfig
	// Fetcher contains fetch orchestration settings
	Fetcher FetcherConfig
	// Scheduler contains the daily fetch schedule
	Scheduler SchedulerConfig

	// Rate Limiting Configuration for the HTTP API
	RateLimit RateLimitConfig
}

// APIConfig contains API server settings
type APIConfig struct {
	// Port is the server port to listen on
	Port string
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	// Host is the database server hostname
	Host string
	// Port is the database server port
	Port int
	// User is the database username
	User string
	// Password is the database password
	Password string
	// DBName is the database name
	DBName string
	// SSLMode is the SSL mode for the database connection
	SSLMode string
	// MigrationsPath is the path to database migrations
	MigrationsPath string
}

// ConnString returns the lib/pq connection string.
func (d DatabaseConfig) ConnString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// EntsoeConfig contains settings for the ENTSO-E transparency platform client
type EntsoeConfig struct {
	// BaseURL is the API endpoint
	BaseURL string
	// SecurityToken is the API access token
	SecurityToken string
	// RateLimitPerMinute caps outbound requests per minute
	RateLimitPerMinute int
	// MaxInFlight caps concurrent outbound requests
	MaxInFlight int
	// RequestTimeout bounds a single HTTP request
	RequestTimeout time.Duration
	// BackoffInitial is the first retry delay for transient failures
	BackoffInitial time.Duration
	// BackoffMax caps the retry delay
	BackoffMax time.Duration
	// BackoffMaxElapsed bounds the total time spent retrying one fetch
	BackoffMaxElapsed time.Duration
}

// FetcherConfig contains fetch orchestration settings
type FetcherConfig struct {
	// Workers is the width of the per-date zone fetch pool
	Workers int
}

// SchedulerConfig contains the daily fetch schedule
type SchedulerConfig struct {
	// Enabled turns scheduled fetching on
	Enabled bool
	// Timezone is the wall-clock reference for the schedule times
	Timezone string
	// PrimaryTime is the unconditional daily fetch, HH:MM
	PrimaryTime string
	// RetryTimes are the conditional retry slots, HH:MM
	RetryTimes []string
}

// RateLimitConfig contains inbound API throttling settings
type RateLimitConfig struct {
	// Requests is the number of requests allowed per window
	Requests int
	// Window is the time window in seconds
	Window int
	// Burst is the maximum burst size
	Burst int
}

// LoadFromEnv retrieves configuration from environment variables
func (c *Config) LoadFromEnv() error {
	c.API = APIConfig{
		Port: getEnvOrDefault("API_PORT", "8080"),
	}
	c.Database = DatabaseConfig{
		Host:           getEnvOrDefault("DB_HOST", "localhost"),
		Port:           getEnvAsInt("DB_PORT", 5432),
		User:           getEnvOrDefault("DB_USER", "postgres"),
		Password:       getEnvOrDefault("DB_PASSWORD", "postgres"),
		DBName:         getEnvOrDefault("DB_NAME", "gridwatch"),
		SSLMode:        getEnvOrDefault("DB_SSL_MODE", "disable"),
		MigrationsPath: "migrations",
	}
	c.Entsoe = EntsoeConfig{
		BaseURL:            getEnvOrDefault("ENTSOE_BASE_URL", "https://web-api.tp.entsoe.eu/api"),
		SecurityToken:      os.Getenv("ENTSOE_SECURITY_TOKEN"),
		RateLimitPerMinute: getEnvAsInt("ENTSOE_RATE_LIMIT_PER_MINUTE", 300),
		MaxInFlight:        getEnvAsInt("ENTSOE_MAX_IN_FLIGHT", 50),
		RequestTimeout:     getEnvAsDuration("ENTSOE_REQUEST_TIMEOUT", 30*time.Second),
		BackoffInitial:     getEnvAsDuration("ENTSOE_BACKOFF_INITIAL", 5*time.Second),
		BackoffMax:         getEnvAsDuration("ENTSOE_BACKOFF_MAX", 60*time.Second),
		BackoffMaxElapsed:  getEnvAsDuration("ENTSOE_BACKOFF_MAX_ELAPSED", 300*time.Second),
	}
	c.Fetcher = FetcherConfig{
		Workers: getEnvAsInt("FETCH_WORKERS", 10),
	}
	c.Scheduler = SchedulerConfig{
		Enabled:     getEnvAsBool("SCHEDULER_ENABLED", true),
		Timezone:    getEnvOrDefault("SCHEDULER_TIMEZONE", "Europe/Oslo"),
		PrimaryTime: getEnvOrDefault("SCHEDULER_PRIMARY_TIME", "13:00"),
		RetryTimes:  getEnvAsList("SCHEDULER_RETRY_TIMES", []string{"14:00", "15:00", "16:00"}),
	}
	c.RateLimit = RateLimitConfig{
		Requests: getEnvAsInt("RATE_LIMIT_REQUESTS", 1000),
		Window:   getEnvAsInt("RATE_LIMIT_WINDOW", 60),
		Burst:    getEnvAsInt("RATE_LIMIT_BURST", 50),
	}

	// Validate required fields
	if c.Entsoe.SecurityToken == "" {
		return fmt.Errorf("ENTSOE_SECURITY_TOKEN is required")
	}

	return nil
}

// getEnvAsInt retrieves an environment variable and converts it to an integer
func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvAsBool retrieves an environment variable and converts it to a boolean
func getEnvAsBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

// getEnvAsDuration retrieves an environment variable and parses it as a duration
func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

// getEnvAsList retrieves a comma-separated environment variable
func getEnvAsList(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}

func getEnvOrDefault(key string, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
