package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Env Environment

	// Server configuration
	ServerPort  string
	ServerHost  string
	FrontendURL string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string
	// MigrationsDir holds the golang-migrate SQL files
	MigrationsDir string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string
	JWTTTL    time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	// Global request limit per client
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Pantry
	ExpiryThresholdDays int
	ExpiryTimezone      string

	// S3 media storage
	S3Bucket        string
	S3Region        string
	S3Endpoint      string
	S3PublicBaseURL string

	// Follow graph backend: "sql" or "neo4j"
	GraphBackend  string
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
	Neo4jDatabase string
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	// .env files are a local convenience; CI and production are configured explicitly
	if env == Development || env == Test {
		_ = godotenv.Load()
	}

	cfg := &Config{Env: env}

	cfg.ServerPort = lookup("SERVER_PORT", "server_port", "5000")
	cfg.ServerHost = lookup("SERVER_HOST", "server_host", "0.0.0.0")
	cfg.FrontendURL = lookup("FRONTEND_URL", "frontend_url", "http://localhost:3000")

	cfg.DBDriver = lookup("DB_DRIVER", "db_driver", "postgres")
	cfg.DBHost = lookup("DB_HOST", "db_host", "localhost")
	cfg.DBPort = lookup("DB_PORT", "db_port", "5432")
	cfg.DBUser = lookup("DB_USER", "db_user", "postgres")
	cfg.DBPassword = lookup("DB_PASSWORD", "db_password", "postgres")
	cfg.DBName = lookup("DB_NAME", "db_name", "despensa")
	cfg.DBSSLMode = lookup("DB_SSL_MODE", "db_ssl_mode", "disable")
	cfg.SQLitePath = lookup("SQLITE_PATH", "sqlite_path", "despensa.db")
	cfg.MigrationsDir = lookup("MIGRATIONS_DIR", "migrations_dir", "migrations")

	cfg.RedisHost = lookup("REDIS_HOST", "redis_host", "localhost")
	cfg.RedisPort = lookup("REDIS_PORT", "redis_port", "6379")
	cfg.RedisPassword = lookup("REDIS_PASSWORD", "redis_password", "")
	cfg.RedisURL = lookup("REDIS_URL", "redis_url", "")

	cfg.JWTSecret = lookup("JWT_SECRET", "jwt_secret", "")
	cfg.LogLevel = lookup("LOG_LEVEL", "log_level", "info")
	cfg.LogFormat = lookup("LOG_FORMAT", "log_format", "text")
	cfg.ExpiryTimezone = lookup("EXPIRY_TIMEZONE", "expiry_timezone", "UTC")

	cfg.S3Bucket = lookup("S3_BUCKET_NAME", "s3_bucket_name", "despensa-media")
	cfg.S3Region = lookup("AWS_REGION", "aws_region", "us-east-1")
	cfg.S3Endpoint = lookup("S3_ENDPOINT", "s3_endpoint", "")
	cfg.S3PublicBaseURL = lookup("S3_PUBLIC_BASE_URL", "s3_public_base_url", "")

	cfg.GraphBackend = lookup("GRAPH_BACKEND", "graph_backend", "sql")
	cfg.Neo4jURI = lookup("NEO4J_URI", "neo4j_uri", "")
	cfg.Neo4jUser = lookup("NEO4J_USERNAME", "neo4j_username", "neo4j")
	cfg.Neo4jPassword = lookup("NEO4J_PASSWORD", "neo4j_password", "")
	cfg.Neo4jDatabase = lookup("NEO4J_DATABASE", "neo4j_database", "neo4j")

	var err error
	if cfg.RedisDB, err = lookupInt("REDIS_DB", "redis_db", 0); err != nil {
		return nil, err
	}
	if cfg.RateLimitRequests, err = lookupInt("RATE_LIMIT_REQUESTS", "rate_limit_requests", 100); err != nil {
		return nil, err
	}
	if cfg.ExpiryThresholdDays, err = lookupInt("EXPIRY_THRESHOLD_DAYS", "expiry_threshold_days", 3); err != nil {
		return nil, err
	}
	if cfg.JWTTTL, err = lookupDuration("JWT_TTL", "jwt_ttl", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.RateLimitWindow, err = lookupDuration("RATE_LIMIT_WINDOW", "rate_limit_window", 15*time.Minute); err != nil {
		return nil, err
	}

	// Development keeps working without a secret; every other environment must set one
	if cfg.JWTSecret == "" && env == Development {
		cfg.JWTSecret = "development-secret"
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Location returns the time zone used to compute calendar days for expiry dates
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ExpiryTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// lookup resolves a value from the environment, then from a Docker secret, then the default
func lookup(envKey, secretName, def string) string {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		return v
	}
	if v := readSecret(secretName); v != "" {
		return v
	}
	return def
}

func lookupInt(envKey, secretName string, def int) (int, error) {
	raw := lookup(envKey, secretName, "")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", envKey, err)
	}
	return n, nil
}

func lookupDuration(envKey, secretName string, def time.Duration) (time.Duration, error) {
	raw := lookup(envKey, secretName, "")
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", envKey, err)
	}
	return d, nil
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
