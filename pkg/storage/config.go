package storage

import (
	"fmt"
	"os"
)

type Config struct {
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
}

type Env struct {
	ContainerName    string
	ConnectionString string
}

func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.ContainerName != "" {
		c.ContainerName = other.ContainerName
	}

	if other.ConnectionString != "" {
		c.ConnectionString = other.ConnectionString
	}
}

func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

func (c *Config) loadDefaults() {
	if c.ContainerName == "" {
		c.ContainerName = "attachments"
	}
}

func (c *Config) loadEnv(env *Env) {
	if v := os.Getenv(env.ContainerName); v != "" {
		c.ContainerName = v
	}

	if v := os.Getenv(env.ConnectionString); v != "" {
		c.ConnectionString = v
	}
}

func (c *Config) validate() error {
	if c.ConnectionString == "" {
		return fmt.Errorf("storage connection string is required")
	}

	return nil
}
