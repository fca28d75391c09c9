// Package config loads service configuration by layering defaults, an
// optional YAML file, and environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces every environment override. Nested keys use a double
// underscore: COACH_DATABASE__MAX_OPEN_CONNS -> database.max_open_conns.
const envPrefix = "COACH_"

// Config is the root service configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings. Timeouts are in seconds.
type ServerConfig struct {
	Host         string `koanf:"host"`
	Port         int    `koanf:"port"`
	ReadTimeout  int    `koanf:"read_timeout"`
	WriteTimeout int    `koanf:"write_timeout"`
	IdleTimeout  int    `koanf:"idle_timeout"`
}

// DatabaseConfig holds Postgres connection and pool settings.
type DatabaseConfig struct {
	Host            string `koanf:"host"`
	Port            int    `koanf:"port"`
	User            string `koanf:"user"`
	Password        string `koanf:"password"`
	Database        string `koanf:"database"`
	SSLMode         string `koanf:"ssl_mode"`
	MaxOpenConns    int    `koanf:"max_open_conns"`
	MaxIdleConns    int    `koanf:"max_idle_conns"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime_min"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time_min"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level string `koanf:"level"`
}

// ReadTimeoutDuration returns the read timeout as a duration.
func (s ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns the write timeout as a duration.
func (s ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// IdleTimeoutDuration returns the idle timeout as a duration.
func (s ServerConfig) IdleTimeoutDuration() time.Duration {
	return time.Duration(s.IdleTimeout) * time.Second
}

// ConnMaxLifetimeDuration returns the pool connection lifetime as a duration.
func (d DatabaseConfig) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(d.ConnMaxLifetime) * time.Minute
}

// ConnMaxIdleTimeDuration returns the pool idle time as a duration.
func (d DatabaseConfig) ConnMaxIdleTimeDuration() time.Duration {
	return time.Duration(d.ConnMaxIdleTime) * time.Minute
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  15,
			WriteTimeout: 15,
			IdleTimeout:  60,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "coach",
			Password:        "coach",
			Database:        "coach_partner",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30,
			ConnMaxIdleTime: 10,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig builds the configuration. Order of precedence (low -> high):
//  1. defaults
//  2. YAML file named by COACH_CONFIG, if set
//  3. environment variables with the COACH_ prefix
//
// A .env file in the working directory is loaded first if present.
func LoadConfig() (*Config, error) {
	// Missing .env is fine; explicit env always wins over it.
	_ = godotenv.Load()

	k := koanf.New(".")

	if path := os.Getenv(envPrefix + "CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := defaults()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database host must not be empty")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name must not be empty")
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("max_open_conns must be positive")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}
	return nil
}
