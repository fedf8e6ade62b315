// Package config provides configuration types and loading for the
// auth-redux account service.
package config

import "time"

// Config is the top-level configuration for the account service.
type Config struct {
	// Server configures the HTTP listener.
	Server ServerConfig `yaml:"server" mapstructure:"server"`

	// Auth configures token issuing.
	Auth AuthConfig `yaml:"auth" mapstructure:"auth"`

	// Storage selects and configures the user store backend.
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
}

// ServerConfig configures the HTTP server.
// TLS is out of scope; terminate it at a reverse proxy.
type ServerConfig struct {
	// HTTPAddr is the address to listen on (e.g., "127.0.0.1:5000").
	// Defaults to "127.0.0.1:5000" if empty.
	HTTPAddr string `yaml:"http_addr" mapstructure:"http_addr" validate:"omitempty,hostname_port"`

	// LogLevel sets the minimum log level.
	// Valid values: "debug", "info", "warn", "error".
	// Defaults to "info" if empty.
	LogLevel string `yaml:"log_level" mapstructure:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
}

// AuthConfig configures bearer token issuing.
type AuthConfig struct {
	// TokenSecret is the HMAC secret used to sign tokens. Required.
	TokenSecret string `yaml:"token_secret" mapstructure:"token_secret" validate:"required,min=16"`

	// TokenTTL is how long issued tokens stay valid (e.g., "720h").
	// Defaults to 30 days if empty.
	TokenTTL string `yaml:"token_ttl" mapstructure:"token_ttl" validate:"omitempty"`
}

// StorageConfig selects the user store backend.
type StorageConfig struct {
	// Driver selects the backend: "memory" or "sqlite".
	// Defaults to "memory" if empty.
	Driver string `yaml:"driver" mapstructure:"driver" validate:"omitempty,oneof=memory sqlite"`

	// Path is the SQLite database file. Required when driver is "sqlite".
	Path string `yaml:"path" mapstructure:"path"`
}

// SetDefaults applies default values for optional fields.
func (c *Config) SetDefaults() {
	if c.Server.HTTPAddr == "" {
		c.Server.HTTPAddr = "127.0.0.1:5000"
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Auth.TokenTTL == "" {
		c.Auth.TokenTTL = "720h"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
}

// TokenTTLDuration parses Auth.TokenTTL. Call Validate first; it guarantees
// the field parses.
func (c *Config) TokenTTLDuration() time.Duration {
	d, err := time.ParseDuration(c.Auth.TokenTTL)
	if err != nil {
		return 30 * 24 * time.Hour
	}
	return d
}
