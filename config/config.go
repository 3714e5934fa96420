// Package config loads and validates the application configuration file.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/motamman/signalk-units-preference-sub000/stream"
)

// ServerConfig holds the HTTP/WebSocket listener settings.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `json:"addr"`
	// WSPath is the WebSocket endpoint for converted delta fan-out.
	WSPath string `json:"wsPath"`
	// CORSOrigins allows the given origins; "*" allows any. Empty disables
	// CORS handling entirely.
	CORSOrigins []string `json:"corsOrigins,omitempty"`
}

// DataConfig holds preference persistence settings.
type DataConfig struct {
	// Dir is the directory holding preferences.json and custom-units.json.
	Dir string `json:"dir"`
	// Watch reloads the documents when they change on disk.
	Watch bool `json:"watch"`
}

// StreamConfig wraps the NATS bridge settings with an enable switch.
type StreamConfig struct {
	Enabled bool `json:"enabled"`
	stream.Config
}

// Config is the complete application configuration.
type Config struct {
	Server ServerConfig `json:"server"`
	Data   DataConfig   `json:"data"`
	Stream StreamConfig `json:"stream"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:   ":8080",
			WSPath: "/ws",
		},
		Data: DataConfig{
			Dir:   "data",
			Watch: true,
		},
		Stream: StreamConfig{
			Enabled: false,
			Config: stream.Config{
				URL:           "nats://localhost:4222",
				InputSubject:  "signalk.delta.raw",
				OutputSubject: "signalk.delta.converted",
			},
		},
	}
}

// Load reads a configuration file over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for usability.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("config: server.addr is required")
	}
	if c.Server.WSPath == "" || c.Server.WSPath[0] != '/' {
		return fmt.Errorf("config: server.wsPath must start with /")
	}
	if c.Data.Dir == "" {
		return fmt.Errorf("config: data.dir is required")
	}
	if c.Stream.Enabled {
		if err := c.Stream.Config.Validate(); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	return nil
}
