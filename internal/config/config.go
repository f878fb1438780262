package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port string
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MigrationsPath  string
}

type GoogleConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Google   GoogleConfig
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireenv(key string) (string, error) {
	v := os.Getenv(key)
	if v == "" {
		return "", fmt.Errorf("config: %s is required", key)
	}
	return v, nil
}

func intenv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// Load собирает конфигурацию из переменных окружения. Файл .env по пути
// path подхватывается, если существует.
func Load(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: failed to load .env: %w", err)
		}
	}

	cfg := &Config{}
	cfg.App.Port = getenv("APP_PORT", "8080")

	var err error
	if cfg.Postgres.Host, err = requireenv("DB_HOST"); err != nil {
		return nil, err
	}
	if cfg.Postgres.Port, err = requireenv("DB_PORT"); err != nil {
		return nil, err
	}
	if cfg.Postgres.User, err = requireenv("DB_USER"); err != nil {
		return nil, err
	}
	if cfg.Postgres.Password, err = requireenv("DB_PASSWORD"); err != nil {
		return nil, err
	}
	if cfg.Postgres.DBName, err = requireenv("DB_NAME"); err != nil {
		return nil, err
	}
	cfg.Postgres.SSLMode = getenv("DB_SSLMODE", "disable")
	cfg.Postgres.MaxConns = int32(intenv("DB_MAX_CONNS", 10))
	cfg.Postgres.MinConns = int32(intenv("DB_MIN_CONNS", 2))
	cfg.Postgres.MaxConnLifetime = time.Duration(intenv("DB_MAX_CONN_LIFETIME_MIN", 30)) * time.Minute
	cfg.Postgres.MigrationsPath = getenv("DB_MIGRATIONS_PATH", "migrations")

	if cfg.Google.APIKey, err = requireenv("GOOGLE_API_KEY"); err != nil {
		return nil, err
	}
	cfg.Google.BaseURL = getenv("GOOGLE_API_BASE_URL", "https://maps.googleapis.com")
	cfg.Google.Timeout = time.Duration(intenv("GOOGLE_API_TIMEOUT_SEC", 5)) * time.Second

	return cfg, nil
}
