package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"housiee-backend/internal/infrastructure/database"
)

// LoadDatabaseConfig reads the PostgreSQL settings from the environment.
// Unlike the app settings, a malformed numeric or duration value is an error.
func LoadDatabaseConfig() (*database.DBConfig, error) {
	p := &envParser{}

	cfg := &database.DBConfig{
		Host:              getEnv("DB_HOST", "localhost"),
		Port:              p.intVar("DB_PORT", 5432),
		Username:          getEnv("DB_USER", "housiee"),
		Password:          getEnv("DB_PASSWORD", "housiee"),
		DBName:            getEnv("DB_NAME", "housiee"),
		SSLMode:           getEnv("DB_SSLMODE", "disable"),
		MaxConns:          int32(p.intVar("DB_MAX_CONNECTIONS", 25)),
		MinConns:          int32(p.intVar("DB_MIN_CONNECTIONS", 2)),
		MaxConnLifetime:   p.durationVar("DB_MAX_CONN_LIFETIME", 5*time.Minute),
		MaxConnIdleTime:   p.durationVar("DB_MAX_CONN_IDLE_TIME", time.Minute),
		HealthCheckPeriod: p.durationVar("DB_HEALTH_CHECK_PERIOD", time.Minute),
		MaxRetries:        p.intVar("DB_MAX_RETRIES", 5),
		RetryDelay:        p.durationVar("DB_RETRY_DELAY", time.Second),
		ConnectTimeout:    p.durationVar("DB_CONNECT_TIMEOUT", 10*time.Second),
	}

	if err := errors.Join(p.errs...); err != nil {
		return nil, err
	}
	if cfg.MinConns > cfg.MaxConns {
		return nil, fmt.Errorf("DB_MIN_CONNECTIONS (%d) exceeds DB_MAX_CONNECTIONS (%d)", cfg.MinConns, cfg.MaxConns)
	}

	return cfg, nil
}

// envParser collects parse failures so every bad variable is reported at once.
type envParser struct {
	errs []error
}

func (p *envParser) intVar(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("invalid %s: %w", key, err))
		return def
	}
	return v
}

func (p *envParser) durationVar(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("invalid %s: %w", key, err))
		return def
	}
	return v
}
