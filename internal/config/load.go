package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// envPrefix is the prefix for environment variables, e.g.
// FLASHDECK_SERVER_PORT, FLASHDECK_DATABASE_URL.
const envPrefix = "FLASHDECK"

// Load reads configuration from environment variables and optionally a
// config.yaml file in the working directory. Environment variables take
// precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	// Registering the key with an empty default lets AutomaticEnv feed it
	// through Unmarshal; validation still requires a real value.
	v.SetDefault("database.url", "")
	v.SetDefault("scheduler.min_ease_factor", 0)
	v.SetDefault("scheduler.max_interval_days", 0)

	// Optional config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; everything can come from the
		// environment. Any other read error is fatal.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables: FLASHDECK_SERVER_PORT etc.
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
