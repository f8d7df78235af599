package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("ENTSOE_SECURITY_TOKEN", "test-token")

	var cfg Config
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "8080", cfg.API.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "gridwatch", cfg.Database.DBName)

	assert.Equal(t, "test-token", cfg.Entsoe.SecurityToken)
	assert.Equal(t, 300, cfg.Entsoe.RateLimitPerMinute)
	assert.Equal(t, 50, cfg.Entsoe.MaxInFlight)
	assert.Equal(t, 5*time.Second, cfg.Entsoe.BackoffInitial)
	assert.Equal(t, 60*time.Second, cfg.Entsoe.BackoffMax)
	assert.Equal(t, 300*time.Second, cfg.Entsoe.BackoffMaxElapsed)

	assert.Equal(t, 10, cfg.Fetcher.Workers)

	assert.True(t, cfg.Scheduler.Enabled)
	assert.Equal(t, "Europe/Oslo", cfg.Scheduler.Timezone)
	assert.Equal(t, "13:00", cfg.Scheduler.PrimaryTime)
	assert.Equal(t, []string{"14:00", "15:00", "16:00"}, cfg.Scheduler.RetryTimes)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("ENTSOE_SECURITY_TOKEN", "test-token")
	t.Setenv("API_PORT", "9090")
	t.Setenv("ENTSOE_RATE_LIMIT_PER_MINUTE", "60")
	t.Setenv("ENTSOE_REQUEST_TIMEOUT", "10s")
	t.Setenv("SCHEDULER_ENABLED", "false")
	t.Setenv("SCHEDULER_RETRY_TIMES", "14:30, 15:30")
	t.Setenv("FETCH_WORKERS", "4")

	var cfg Config
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "9090", cfg.API.Port)
	assert.Equal(t, 60, cfg.Entsoe.RateLimitPerMinute)
	assert.Equal(t, 10*time.Second, cfg.Entsoe.RequestTimeout)
	assert.False(t, cfg.Scheduler.Enabled)
	assert.Equal(t, []string{"14:30", "15:30"}, cfg.Scheduler.RetryTimes)
	assert.Equal(t, 4, cfg.Fetcher.Workers)
}

func TestLoadFromEnv_RequiresToken(t *testing.T) {
	t.Setenv("ENTSOE_SECURITY_TOKEN", "")

	var cfg Config
	err := cfg.LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ENTSOE_SECURITY_TOKEN")
}

func TestLoadFromEnv_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("ENTSOE_SECURITY_TOKEN", "test-token")
	t.Setenv("DB_PORT", "not-a-port")
	t.Setenv("ENTSOE_BACKOFF_INITIAL", "soon")
	t.Setenv("SCHEDULER_ENABLED", "maybe")

	var cfg Config
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 5*time.Second, cfg.Entsoe.BackoffInitial)
	assert.True(t, cfg.Scheduler.Enabled)
}

func TestConnString(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db",
		Port:     5433,
		User:     "svc",
		Password: "secret",
		DBName:   "prices",
		SSLMode:  "require",
	}
	assert.Equal(t, "host=db port=5433 user=svc password=secret dbname=prices sslmode=require", d.ConnString())
}
