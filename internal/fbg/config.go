package fbg

import (
	"errors"
	"os"
)

const (
	defaultPostgresHost    = "localhost"
	defaultPostgresPort    = "5432"
	defaultPostgresDB      = "structures"
	defaultPostgresUser    = "fbg"
	defaultPostgresSSLMode = "disable"
	defaultPort            = "8000"
	defaultMetricsAddr     = ":9090"
)

// Config holds the service configuration.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresDB       string
	PostgresUser     string
	PostgresPassword string
	PostgresSSLMode  string

	// CalibrationPath optionally points at a YAML file overriding the
	// built-in calibration coefficients.
	CalibrationPath string

	Port        string
	MetricsAddr string
}

// ConfigFromEnv creates a Config from environment variables.
func ConfigFromEnv() Config {
	return Config{
		PostgresHost:     getEnvOrDefault("POSTGRES_HOST", defaultPostgresHost),
		PostgresPort:     getEnvOrDefault("POSTGRES_PORT", defaultPostgresPort),
		PostgresDB:       getEnvOrDefault("POSTGRES_DB", defaultPostgresDB),
		PostgresUser:     getEnvOrDefault("POSTGRES_USER", defaultPostgresUser),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresSSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", defaultPostgresSSLMode),
		CalibrationPath:  os.Getenv("FBG_CALIBRATION_FILE"),
		Port:             getEnvOrDefault("PORT", defaultPort),
		MetricsAddr:      getEnvOrDefault("METRICS_ADDR", defaultMetricsAddr),
	}
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.PostgresHost == "" {
		return errors.New("POSTGRES_HOST is required")
	}
	if c.PostgresDB == "" {
		return errors.New("POSTGRES_DB is required")
	}
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
