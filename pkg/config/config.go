// Package config loads server configuration from an optional YAML file
// and the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lifewear/mcp-oura/pkg/oura"
)

// Supported transports.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config holds the complete server configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Oura   OuraConfig   `yaml:"oura"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig configures the MCP server.
type ServerConfig struct {
	Name      string `yaml:"name"`
	Version   string `yaml:"version"`
	Transport string `yaml:"transport"` // "stdio", "http"
	Address   string `yaml:"address"`
}

// OuraConfig configures the upstream API.
type OuraConfig struct {
	BaseURL string `yaml:"base_url"`

	// Token is the personal access token used on the stdio transport,
	// where no Authorization header exists. HTTP connections carry
	// their own credential and ignore it.
	Token string `yaml:"token"`

	// Timeout bounds each upstream request. Zero leaves requests
	// unbounded.
	Timeout time.Duration `yaml:"timeout"`
}

// LogConfig configures telemetry output.
type LogConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error"
}

// Load reads configuration from path (or defaults when path is empty),
// expands ${VAR} references, and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		// #nosec G304 -- path comes from CLI args, controlled by the operator
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		data = []byte(expandEnvVars(string(data)))
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// expandEnvVars expands ${VAR} patterns in the string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})
}

// applyEnvOverrides lets the environment win over the file for the
// settings operators most often set per-deployment.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OURA_API_KEY"); v != "" {
		cfg.Oura.Token = v
	}
	if v := os.Getenv("OURA_BASE_URL"); v != "" {
		cfg.Oura.BaseURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// applyDefaults applies default values to the config.
func applyDefaults(cfg *Config) {
	if cfg.Server.Name == "" {
		cfg.Server.Name = "mcp-oura"
	}
	if cfg.Server.Version == "" {
		cfg.Server.Version = "1.0.0"
	}
	if cfg.Server.Transport == "" {
		cfg.Server.Transport = TransportStdio
	}
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Oura.BaseURL == "" {
		cfg.Oura.BaseURL = oura.DefaultBaseURL
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// validate rejects configurations the server cannot run with.
func validate(cfg *Config) error {
	switch cfg.Server.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("unknown transport %q: expected stdio or http", cfg.Server.Transport)
	}
	if _, err := ParseLevel(cfg.Log.Level); err != nil {
		return err
	}
	return nil
}

// ParseLevel converts a configured level name to a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", level)
	}
}

// ClientConfig returns the oura client configuration derived from the
// loaded settings.
func (c *Config) ClientConfig() oura.Config {
	return oura.Config{
		BaseURL: c.Oura.BaseURL,
		Timeout: c.Oura.Timeout,
	}
}
