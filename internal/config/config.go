// Package config loads tracker settings from an optional YAML file and the
// environment. Environment variables (prefix TRACKER_) win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const envPrefix = "TRACKER"

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// OIDC configures single sign-on. SSO is enabled when Issuer is set.
type OIDC struct {
	Issuer       string `yaml:"issuer" envconfig:"ISSUER"`
	ClientID     string `yaml:"client_id" envconfig:"CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" envconfig:"CLIENT_SECRET"`
	RedirectURL  string `yaml:"redirect_url" envconfig:"REDIRECT_URL"`
}

// Enabled reports whether SSO is configured.
func (o OIDC) Enabled() bool {
	return o.Issuer != ""
}

// Config holds all tracker settings.
type Config struct {
	Addr         string        `yaml:"addr" envconfig:"ADDR"`
	WebDir       string        `yaml:"web_dir" envconfig:"WEB_DIR"`
	StoreDriver  string        `yaml:"store_driver" envconfig:"STORE_DRIVER"`
	SQLitePath   string        `yaml:"sqlite_path" envconfig:"SQLITE_PATH"`
	DatabaseURL  string        `yaml:"database_url" envconfig:"DATABASE_URL"`
	LogLevel     string        `yaml:"log_level" envconfig:"LOG_LEVEL"`
	LogFile      string        `yaml:"log_file" envconfig:"LOG_FILE"`
	LogDBQueries bool          `yaml:"log_db_queries" envconfig:"LOG_DB_QUERIES"`
	WriteTimeout time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	OIDC         OIDC          `yaml:"oidc" envconfig:"OIDC"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:         "127.0.0.1:8080",
		WebDir:       "web",
		StoreDriver:  DriverSQLite,
		SQLitePath:   "tracker.db",
		LogLevel:     "info",
		WriteTimeout: 5 * time.Second,
	}
}

// Load reads path (if not empty) over the defaults, applies environment
// overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the settings are usable together.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverMemory:
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("sqlite_path is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("database_url is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
	if c.WriteTimeout <= 0 {
		return errors.New("write_timeout must be positive")
	}
	if c.OIDC.Enabled() && (c.OIDC.ClientID == "" || c.OIDC.RedirectURL == "") {
		return errors.New("oidc client_id and redirect_url are required when issuer is set")
	}
	return nil
}
