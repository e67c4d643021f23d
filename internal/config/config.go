// Package config defines the application configuration structure and the
// logic for loading it from environment variables and config files.
package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"  validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// SchedulerConfig contains tunables for the spaced-repetition algorithm.
// Zero values defer to the algorithm defaults.
type SchedulerConfig struct {
	MinEaseFactor   float64 `mapstructure:"min_ease_factor"   validate:"omitempty,gt=1"`
	MaxIntervalDays int     `mapstructure:"max_interval_days" validate:"omitempty,gt=0"`
}
