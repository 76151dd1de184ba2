// Package config loads and finalizes the service configuration from
// config.toml, an optional environment overlay, and environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
	"github.com/pelletier/go-toml/v2"

	"github.com/albmartin/po-intake/pkg/database"
	"github.com/albmartin/po-intake/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvIntakeEnv             = "POINTAKE_ENV"
	EnvIntakeShutdownTimeout = "POINTAKE_SHUTDOWN_TIMEOUT"
	EnvIntakeVersion         = "POINTAKE_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "POINTAKE_DB_HOST",
	Port:            "POINTAKE_DB_PORT",
	Name:            "POINTAKE_DB_NAME",
	User:            "POINTAKE_DB_USER",
	Password:        "POINTAKE_DB_PASSWORD",
	SSLMode:         "POINTAKE_DB_SSL_MODE",
	MaxOpenConns:    "POINTAKE_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "POINTAKE_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "POINTAKE_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "POINTAKE_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "POINTAKE_STORAGE_CONTAINER_NAME",
	ConnectionString: "POINTAKE_STORAGE_CONNECTION_STRING",
}

// Config is the root configuration for the intake service.
type Config struct {
	Server          ServerConfig         `toml:"server"`
	Database        database.Config      `toml:"database"`
	Storage         storage.Config       `toml:"storage"`
	API             APIConfig            `toml:"api"`
	Agent           gaconfig.AgentConfig `toml:"agent"`
	Workflow        WorkflowConfig       `toml:"workflow"`
	Capabilities    CapabilitiesConfig   `toml:"capabilities"`
	ShutdownTimeout string               `toml:"shutdown_timeout"`
	Version         string               `toml:"version"`
}

// Env returns the POINTAKE_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvIntakeEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. When no config.toml exists, defaults and
// environment variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Agent.Merge(&overlay.Agent)
	c.Workflow.Merge(&overlay.Workflow)
	c.Capabilities.Merge(&overlay.Capabilities)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := FinalizeAgent(&c.Agent); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	if err := c.Workflow.Finalize(); err != nil {
		return fmt.Errorf("workflow: %w", err)
	}
	if err := c.Capabilities.Finalize(); err != nil {
		return fmt.Errorf("capabilities: %w", err)
	}
	if c.Capabilities.Rows == "composio" && c.Workflow.SpreadsheetID == "" {
		return fmt.Errorf("workflow: spreadsheet_id is required when rows capability is composio")
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvIntakeShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvIntakeVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return &cfg, nil
}

func overlayPath() string {
	env := os.Getenv(EnvIntakeEnv)
	if env == "" {
		return ""
	}

	path := fmt.Sprintf(OverlayConfigPattern, env)
	if _, err := os.Stat(path); err != nil {
		return ""
	}

	return path
}
