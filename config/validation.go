package config

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	var result *multierror.Error

	if cfg.ServerPort == "" {
		result = multierror.Append(result, ValidationError{"SERVER_PORT", "is required"})
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBHost == "" || cfg.DBName == "" {
			result = multierror.Append(result, ValidationError{"DB_HOST/DB_NAME", "are required for postgres"})
		}
	case "sqlite":
		if cfg.SQLitePath == "" {
			result = multierror.Append(result, ValidationError{"SQLITE_PATH", "is required for sqlite"})
		}
	default:
		result = multierror.Append(result, ValidationError{"DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	if cfg.JWTSecret == "" {
		result = multierror.Append(result, ValidationError{"JWT_SECRET", fmt.Sprintf("is required in %s environment", cfg.Env)})
	}
	if cfg.Env == Production && len(cfg.JWTSecret) < 32 {
		result = multierror.Append(result, ValidationError{"JWT_SECRET", "must be at least 32 characters in production"})
	}
	if cfg.JWTTTL <= 0 {
		result = multierror.Append(result, ValidationError{"JWT_TTL", "must be positive"})
	}

	if cfg.RateLimitRequests <= 0 || cfg.RateLimitWindow <= 0 {
		result = multierror.Append(result, ValidationError{"RATE_LIMIT", "requests and window must be positive"})
	}

	if cfg.ExpiryThresholdDays < 0 {
		result = multierror.Append(result, ValidationError{"EXPIRY_THRESHOLD_DAYS", "cannot be negative"})
	}
	if _, err := time.LoadLocation(cfg.ExpiryTimezone); err != nil {
		result = multierror.Append(result, ValidationError{"EXPIRY_TIMEZONE", err.Error()})
	}

	switch cfg.GraphBackend {
	case "sql":
	case "neo4j":
		if cfg.Neo4jURI == "" {
			result = multierror.Append(result, ValidationError{"NEO4J_URI", "is required when GRAPH_BACKEND=neo4j"})
		}
		if cfg.Neo4jPassword == "" {
			result = multierror.Append(result, ValidationError{"NEO4J_PASSWORD", "is required when GRAPH_BACKEND=neo4j"})
		}
	default:
		result = multierror.Append(result, ValidationError{"GRAPH_BACKEND", fmt.Sprintf("unsupported backend %q", cfg.GraphBackend)})
	}

	return result.ErrorOrNil()
}
