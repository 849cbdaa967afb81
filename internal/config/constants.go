package config

import "time"

// Default values for configuration
const (
	// Config file locations
	DefaultConfigPath = "configs/config.yaml"

	// HTTP server defaults
	DefaultPort              = 8080
	DefaultMaxBodyBytes      = 32 * 1024 * 1024 // base64 of a ~24MB clip
	DefaultReadTimeout       = 30               // seconds
	DefaultReadHeaderTimeout = 10               // seconds
	DefaultIdleTimeout       = 60               // seconds
	DefaultShutdownTimeout   = 15               // seconds

	// Provider defaults
	DefaultModel = "gemini-3-flash-preview"

	// Outbound HTTP transport
	MaxIdleConns          = 100
	MaxIdleConnsPerHost   = 100
	IdleConnTimeout       = 90 * time.Second
	TLSHandshakeTimeout   = 10 * time.Second
	ExpectContinueTimeout = 1 * time.Second

	// Logging defaults
	DefaultLogLevel = "INFO"

	// Environment variables
	EnvAPIKey       = "API_KEY"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvPort         = "PORT"
	EnvLogLevel     = "LOG_LEVEL"
)
