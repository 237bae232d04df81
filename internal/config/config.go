package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Config represents the gateway configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	API        APIConfig        `yaml:"api"`
	ChirpStack ChirpStackConfig `yaml:"chirpstack"`
	Auth       AuthConfig       `yaml:"auth"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig represents service identity
type ServerConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// APIConfig represents the REST listener configuration
type APIConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// ChirpStackConfig represents the backend network-server connection
type ChirpStackConfig struct {
	URL      string `yaml:"url"`
	APIKey   string `yaml:"api_key"`
	TenantID string `yaml:"tenant_id"`
}

// AuthConfig represents inbound API authentication. Auth is disabled
// when no secret is configured.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Load loads configuration from an optional YAML file, applies environment
// overrides and validates the result. An empty filename skips the file and
// configures from the environment alone.
func Load(filename string) (*Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Name:    "chirpstack-rest-gateway",
			Version: "1.0.0",
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8090,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}

	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("unmarshal config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyEnvOverrides applies environment variable overrides
func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("CHIRPSTACK_URL"); url != "" {
		c.ChirpStack.URL = url
	}

	if key := os.Getenv("CHIRPSTACK_API_KEY"); key != "" {
		c.ChirpStack.APIKey = key
	}

	if tenant := os.Getenv("CHIRPSTACK_TENANT_ID"); tenant != "" {
		c.ChirpStack.TenantID = tenant
	}

	if host := os.Getenv("API_HOST"); host != "" {
		c.API.Host = host
	}

	if port := os.Getenv("API_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.API.Port = p
		}
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Log.Level = logLevel
	}

	if logFile := os.Getenv("LOG_FILE"); logFile != "" {
		c.Log.File = logFile
	}

	if secret := os.Getenv("GATEWAY_JWT_SECRET"); secret != "" {
		c.Auth.JWTSecret = secret
	}
}

// validate checks required settings. Missing backend settings are fatal:
// the service must not bind its listener without a complete backend config.
func (c *Config) validate() error {
	if c.ChirpStack.URL == "" {
		return fmt.Errorf("CHIRPSTACK_URL is required")
	}

	if c.ChirpStack.APIKey == "" {
		return fmt.Errorf("CHIRPSTACK_API_KEY is required")
	}

	if c.ChirpStack.TenantID == "" {
		return fmt.Errorf("CHIRPSTACK_TENANT_ID is required")
	}

	// Tenant IDs are UUIDs (32 hex digits, with or without dashes).
	// Normalize to the canonical form the backend expects.
	tenantID, err := uuid.Parse(c.ChirpStack.TenantID)
	if err != nil {
		return fmt.Errorf("CHIRPSTACK_TENANT_ID is not a valid identifier: %w", err)
	}
	c.ChirpStack.TenantID = tenantID.String()

	if c.API.Port <= 0 || c.API.Port > 65535 {
		return fmt.Errorf("invalid API port: %d", c.API.Port)
	}

	return nil
}

// DialTarget returns the gRPC dial target derived from the configured URL,
// and whether the connection should use TLS. The scheme is stripped and
// port 8080 is assumed when none is given; https or port 443 selects TLS.
func (c *ChirpStackConfig) DialTarget() (string, bool) {
	target := c.URL

	if idx := strings.Index(target, "://"); idx >= 0 {
		target = target[idx+3:]
	}
	target = strings.TrimSuffix(target, "/")

	if !strings.Contains(target, ":") {
		target += ":8080"
	}

	useTLS := strings.HasPrefix(c.URL, "https://") || strings.HasSuffix(target, ":443")

	return target, useTLS
}
