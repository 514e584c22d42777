// Package container provides dependency injection and lifecycle management
// for the expense reporting engine following Clean Architecture principles.
package container

import (
	"fmt"
	"time"
)

// Config holds all configuration for the Container.
// It aggregates configurations for all subsystems.
type Config struct {
	// Database configuration
	Database DatabaseConfig

	// Auth configuration
	Auth AuthConfig

	// Reporting configuration
	Reporting ReportingConfig

	// Server configuration
	Server ServerConfig
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// Path to SQLite database file
	Path string

	// MaxOpenConns is the maximum number of open connections
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections
	MaxIdleConns int

	// ConnMaxLifetime is the maximum connection lifetime
	ConnMaxLifetime time.Duration

	// MigrationsDir is the path to migration files
	MigrationsDir string
}

// AuthConfig holds request authentication settings.
type AuthConfig struct {
	// JWTSecret verifies bearer tokens on report routes
	JWTSecret string

	// Issuer is the expected token issuer (informational)
	Issuer string
}

// ReportingConfig holds consumption estimation thresholds.
type ReportingConfig struct {
	// MinDataPoints below which confidence degrades
	MinDataPoints int

	// MinDistanceKm below which a partition's totals are too small
	MinDistanceKm float64

	// MinFuelUnits below which a partition's totals are too small
	MinFuelUnits float64
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host to bind to
	Host string

	// Port to listen on
	Port int

	// ReadTimeout for HTTP server
	ReadTimeout time.Duration

	// WriteTimeout for HTTP server
	WriteTimeout time.Duration

	// CORSOrigins allowed for browser clients
	CORSOrigins []string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:            "data/carexpenses.db",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			MigrationsDir:   "migrations",
		},
		Reporting: ReportingConfig{
			MinDataPoints: 2,
			MinDistanceKm: 50,
			MinFuelUnits:  5,
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			CORSOrigins:  []string{"*"},
		},
	}
}

// Validate checks that required configuration values are present.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Reporting.MinDataPoints < 1 {
		return fmt.Errorf("reporting.min_data_points must be at least 1")
	}
	return nil
}
