// Package config provides configuration management for the VoxGuard gateway.
// It handles loading an optional YAML configuration file, applying defaults,
// layering environment overrides on top, and validating the result before the
// server starts.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// Config represents the main configuration structure
type Config struct {
	// Provider credential. Usually supplied through API_KEY.
	APIKey string `yaml:"api_key"`

	// HTTP server settings
	Server struct {
		Address      string `yaml:"address"`
		Port         int    `yaml:"port"`
		MaxBodyBytes int64  `yaml:"max_body_bytes"`

		// Timeouts in seconds. WriteTimeout stays 0 so long provider
		// round trips are not cut off by the server.
		ReadTimeout       int `yaml:"read_timeout"`
		ReadHeaderTimeout int `yaml:"read_header_timeout"`
		WriteTimeout      int `yaml:"write_timeout"`
		IdleTimeout       int `yaml:"idle_timeout"`
		ShutdownTimeout   int `yaml:"shutdown_timeout"`

		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`

	// Inference provider settings
	Provider struct {
		Model   string `yaml:"model"`
		BaseURL string `yaml:"base_url,omitempty"`
		// Timeout in seconds for a single provider call, 0 means none
		Timeout int         `yaml:"timeout"`
		Params  ModelParams `yaml:"params"`
	} `yaml:"provider"`

	// Logging settings
	Logging struct {
		LogLevel string `yaml:"log_level"`
	} `yaml:"logging"`

	// Metrics settings
	Metrics struct {
		Enabled *bool `yaml:"enabled,omitempty"`
	} `yaml:"metrics"`
}

// ModelParams represents model-specific generation parameters
type ModelParams struct {
	Temperature    *float32 `yaml:"temperature,omitempty"`
	ThinkingBudget *int32   `yaml:"thinking_budget,omitempty"`
}

// ResolvePath maps an empty filename to DefaultConfigPath
func ResolvePath(filename string) string {
	if filename == "" {
		return DefaultConfigPath
	}
	return filename
}

// LoadConfig loads configuration from a YAML file and applies environment
// overrides. The default file is allowed to be missing so the service can run
// from the environment alone; any other named file must exist.
func LoadConfig(filename string) (*Config, error) {
	filename = ResolvePath(filename)
	optional := filepath.Clean(filename) == filepath.Clean(DefaultConfigPath)

	data, err := os.ReadFile(filename)
	if err != nil {
		if !optional || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		data = nil
	}

	cfg, err := parseConfig(data)
	if err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// parseConfig parses YAML data into Config struct
func parseConfig(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set server defaults
	if config.Server.Port == 0 {
		config.Server.Port = DefaultPort
	}
	if config.Server.MaxBodyBytes == 0 {
		config.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = DefaultReadTimeout
	}
	if config.Server.ReadHeaderTimeout == 0 {
		config.Server.ReadHeaderTimeout = DefaultReadHeaderTimeout
	}
	if config.Server.IdleTimeout == 0 {
		config.Server.IdleTimeout = DefaultIdleTimeout
	}
	if config.Server.ShutdownTimeout == 0 {
		config.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if len(config.Server.AllowedOrigins) == 0 {
		config.Server.AllowedOrigins = []string{"*"}
	}

	// Set provider defaults
	if config.Provider.Model == "" {
		config.Provider.Model = DefaultModel
	}

	// Set logging defaults
	if config.Logging.LogLevel == "" {
		config.Logging.LogLevel = DefaultLogLevel
	}

	return &config, nil
}

// applyEnv layers process environment on top of file values
func (c *Config) applyEnv() error {
	if key := strings.TrimSpace(os.Getenv(EnvAPIKey)); key != "" {
		c.APIKey = key
	} else if c.APIKey == "" {
		c.APIKey = strings.TrimSpace(os.Getenv(EnvGeminiAPIKey))
	}

	if port := strings.TrimSpace(os.Getenv(EnvPort)); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, port, err)
		}
		c.Server.Port = p
	}

	if level := strings.TrimSpace(os.Getenv(EnvLogLevel)); level != "" {
		c.Logging.LogLevel = level
	}

	return nil
}

// Validate checks that the configuration can serve requests.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("provider credential is required (set %s)", EnvAPIKey)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.MaxBodyBytes < 0 {
		return fmt.Errorf("max_body_bytes must not be negative: %d", c.Server.MaxBodyBytes)
	}
	if c.Provider.Timeout < 0 {
		return fmt.Errorf("provider timeout must not be negative: %d", c.Provider.Timeout)
	}
	if t := c.Provider.Params.Temperature; t != nil && (*t < 0 || *t > 2) {
		return fmt.Errorf("temperature must be between 0 and 2, got %v", *t)
	}
	return nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// GetProviderTimeout returns the per-call provider timeout, 0 when unbounded
func (c *Config) GetProviderTimeout() time.Duration {
	return time.Duration(c.Provider.Timeout) * time.Second
}

// GetShutdownTimeout returns how long graceful shutdown may take
func (c *Config) GetShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeout) * time.Second
}

// MetricsEnabled reports whether /metrics is served. Defaults to true.
func (c *Config) MetricsEnabled() bool {
	if c.Metrics.Enabled == nil {
		return true
	}
	return *c.Metrics.Enabled
}
