package main

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config carries all environment-driven settings, loaded once at startup
// and injected everywhere else. Nothing re-reads the environment per request.
type Config struct {
	Port        string
	Environment string

	// Database
	DatabaseURL       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnectTimeout  time.Duration
	DBConnMaxIdleTime time.Duration
	DBConnMaxLifetime time.Duration

	// Admin auth
	AdminPassword string
	JWTSecret     string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:        getenv("PORT", "8080"),
		Environment: getenv("APP_ENV", "development"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		DBMaxOpenConns:    getenvInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns:    getenvInt("DB_MAX_IDLE_CONNS", 5),
		DBConnectTimeout:  time.Duration(getenvInt("DB_CONNECT_TIMEOUT_SEC", 5)) * time.Second,
		DBConnMaxIdleTime: time.Duration(getenvInt("DB_IDLE_TIMEOUT_SEC", 30)) * time.Second,
		DBConnMaxLifetime: time.Duration(getenvInt("DB_CONN_LIFETIME_MIN", 10)) * time.Minute,

		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if _, err := url.Parse(cfg.DatabaseURL); err != nil {
		return nil, fmt.Errorf("DATABASE_URL is not a valid URL: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.AdminPassword == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD is required")
	}

	return cfg, nil
}

// DSN returns the GORM/pgx connection string: the DATABASE_URL as-is with
// connect timeout and sslmode appended unless the URL already sets them.
// Production relaxes certificate validation (sslmode=require) to match
// managed-Postgres defaults; development runs without TLS.
func (c *Config) DSN() string {
	u, err := url.Parse(c.DatabaseURL)
	if err != nil {
		return c.DatabaseURL
	}
	q := u.Query()
	if q.Get("connect_timeout") == "" {
		q.Set("connect_timeout", strconv.Itoa(int(c.DBConnectTimeout.Seconds())))
	}
	if q.Get("sslmode") == "" {
		if c.Environment == "production" {
			q.Set("sslmode", "require")
		} else {
			q.Set("sslmode", "disable")
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
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
