package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vasiliy-maslov/inventory-management-system/internal/config"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("DB_PASSWORD", "123456")
	t.Setenv("DB_NAME", "inventory")
	t.Setenv("GOOGLE_API_KEY", "test-key")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_PORT", "")
	t.Setenv("DB_SSLMODE", "")
	t.Setenv("GOOGLE_API_TIMEOUT_SEC", "")

	cfg, err := config.Load("")
	assert.NoError(t, err)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "disable", cfg.Postgres.SSLMode)
	assert.Equal(t, int32(10), cfg.Postgres.MaxConns)
	assert.Equal(t, 5*time.Second, cfg.Google.Timeout)
	assert.Equal(t, "https://maps.googleapis.com", cfg.Google.BaseURL)
}

func TestLoad_MissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_HOST", "")

	_, err := config.Load("")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_HOST")
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_PORT", "9090")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("GOOGLE_API_TIMEOUT_SEC", "2")

	cfg, err := config.Load("")
	assert.NoError(t, err)
	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, int32(25), cfg.Postgres.MaxConns)
	assert.Equal(t, 2*time.Second, cfg.Google.Timeout)
}
