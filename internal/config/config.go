package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Transport selects which front end the process binds to the dispatcher.
type Transport string

const (
	TransportStdio     Transport = "stdio"
	TransportWebSocket Transport = "websocket"
	TransportHTTP      Transport = "http"
)

// Default listen ports per network transport.
const (
	DefaultWebSocketPort = 3000
	DefaultHTTPPort      = 3001
)

// Config carries everything the process needs at startup. It is built once
// in cmd and passed down explicitly; nothing reads the environment after
// Load returns.
type Config struct {
	APIKey     string    `yaml:"api_key"`
	APIKeyFile string    `yaml:"api_key_file"`
	Transport  Transport `yaml:"transport"`
	Port       int       `yaml:"port"`
	LogLevel   string    `yaml:"log_level"`
	LogFormat  string    `yaml:"log_format"`
}

func Default() *Config {
	return &Config{
		Transport: TransportStdio,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load builds a Config from defaults, an optional YAML file, and the
// environment, in that order. Values read from the file may reference
// environment variables as ${NAME}.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		expanded := os.Expand(string(data), func(name string) string {
			return os.Getenv(name)
		})
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if key := os.Getenv("GOOGLE_PLACES_API_KEY"); key != "" {
		cfg.APIKey = key
	}
	if keyFile := os.Getenv("GOOGLE_PLACES_API_KEY_FILE"); keyFile != "" {
		cfg.APIKeyFile = keyFile
	}
	if port := os.Getenv("PORT"); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT value %q: %w", port, err)
		}
		cfg.Port = n
	}

	return cfg, nil
}

// Validate checks the invariants that must hold before any transport starts.
func (c *Config) Validate() error {
	if c.APIKey == "" && c.APIKeyFile == "" {
		return fmt.Errorf("missing required configuration: set GOOGLE_PLACES_API_KEY or GOOGLE_PLACES_API_KEY_FILE")
	}
	switch c.Transport {
	case TransportStdio, TransportWebSocket, TransportHTTP:
	default:
		return fmt.Errorf("unknown transport %q", c.Transport)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	return nil
}

// ListenPort resolves the effective port for the selected transport.
func (c *Config) ListenPort() int {
	if c.Port != 0 {
		return c.Port
	}
	if c.Transport == TransportHTTP {
		return DefaultHTTPPort
	}
	return DefaultWebSocketPort
}
