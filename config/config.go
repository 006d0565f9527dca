package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Env         string
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	JWTSecret []byte
	JWTExpiry time.Duration

	MaxCancellationsPerDay int
}

// Load reads configuration from the environment, falling back to local
// development defaults. A .env file, if present, is loaded by main before
// this runs.
func Load() *Config {
	return &Config{
		Port:        getEnvOrDefault("PORT", "8080"),
		Env:         getEnvOrDefault("APP_ENV", "development"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      getEnvOrDefault("DB_HOST", "localhost"),
		DBPort:      getEnvOrDefault("DB_PORT", "5432"),
		DBUser:      getEnvOrDefault("DB_USER", "postgres"),
		DBPassword:  getEnvOrDefault("DB_PASSWORD", "postgres"),
		DBName:      getEnvOrDefault("DB_NAME", "mini_ecommerce"),

		JWTSecret: []byte(getEnvOrDefault("JWT_SECRET", "dev-secret-change-me")),
		JWTExpiry: time.Duration(getEnvInt("JWT_EXPIRES_HOURS", 24)) * time.Hour,

		MaxCancellationsPerDay: getEnvInt("MAX_CANCELLATIONS_PER_DAY", 3),
	}
}

// DSN returns the postgres connection string, preferring DATABASE_URL when
// set (cloud deployments) over the individual DB_* variables.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}

func (c *Config) IsDevelopment() bool { return c.Env == "development" }

func getEnvOrDefault(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return n
}
