// Package config provides configuration loading for wellnessd.
//
// Configuration is layered: hardcoded defaults, then an optional YAML file,
// then environment variable overrides.
package config

import (
	"fmt"
	"time"

	"github.com/fyrsmithlabs/wellnessd/internal/llm"
	"github.com/fyrsmithlabs/wellnessd/internal/logging"
)

// Config holds the complete wellnessd configuration.
type Config struct {
	Server  ServerConfig    `koanf:"server"`
	Logging *logging.Config `koanf:"logging"`
	LLM     llm.Config      `koanf:"llm"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	if c.Logging != nil {
		if err := c.Logging.Validate(); err != nil {
			return fmt.Errorf("logging config: %w", err)
		}
	}
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("llm config: %w", err)
	}
	return nil
}

// defaultConfig returns the hardcoded defaults. File and environment values
// are unmarshalled over it, so a partial override of one section keeps the
// defaults for the rest of that section.
func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8097,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: logging.NewDefaultConfig(),
		LLM:     llm.NewDefaultConfig(),
	}
}
