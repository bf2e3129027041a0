// Package config loads ledctl configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	LogLevel string      `yaml:"log_level" env:"LEDCTL_LOG_LEVEL"`
	LogJSON  bool        `yaml:"log_json" env:"LEDCTL_LOG_JSON"`
	BLE      BLEConfig   `yaml:"ble" envPrefix:"LEDCTL_BLE_"`
	Light    LightConfig `yaml:"light" envPrefix:"LEDCTL_LIGHT_"`
}

// BLEConfig holds discovery and connection settings.
type BLEConfig struct {
	DeviceName     string        `yaml:"device_name" env:"DEVICE_NAME"`
	ServiceUUID    string        `yaml:"service_uuid" env:"SERVICE_UUID"`
	PollInterval   time.Duration `yaml:"poll_interval" env:"POLL_INTERVAL"`
	HealthInterval time.Duration `yaml:"health_interval" env:"HEALTH_INTERVAL"`
	ReconnectDelay time.Duration `yaml:"reconnect_delay" env:"RECONNECT_DELAY"`
	SendHandshake  bool          `yaml:"send_handshake" env:"SEND_HANDSHAKE"`
}

// LightConfig holds per-fixture settings behavior.
type LightConfig struct {
	DebounceWindow   time.Duration `yaml:"debounce_window" env:"DEBOUNCE_WINDOW"`
	QueueSize        int           `yaml:"queue_size" env:"QUEUE_SIZE"`
	DefaultIntensity uint8         `yaml:"default_intensity" env:"DEFAULT_INTENSITY"`
}

// DefaultConfigDir returns the default config directory path.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "ledctl")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		BLE: BLEConfig{
			DeviceName:     "BT_LED",
			ServiceUUID:    "00010203-0405-0607-0809-0a0b0c0d1910",
			PollInterval:   500 * time.Millisecond,
			HealthInterval: time.Second,
			ReconnectDelay: 5 * time.Second,
		},
		Light: LightConfig{
			DebounceWindow:   100 * time.Millisecond,
			QueueSize:        10,
			DefaultIntensity: 10,
		},
	}
}

// Load reads and parses a YAML config file. Missing fields are filled with
// defaults, then LEDCTL_* environment variables override both.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment overrides: %w", err)
	}

	return cfg, nil
}

// FromEnv returns the defaults with environment overrides applied, for runs
// without a config file.
func FromEnv() (*Config, error) {
	cfg := Default()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment overrides: %w", err)
	}
	return cfg, nil
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be trace, debug, info, warn, or error, got %q", c.LogLevel)
	}

	if c.BLE.DeviceName == "" {
		return fmt.Errorf("ble.device_name must not be empty")
	}
	if c.BLE.ServiceUUID == "" {
		return fmt.Errorf("ble.service_uuid must not be empty")
	}
	if c.BLE.PollInterval <= 0 {
		return fmt.Errorf("ble.poll_interval must be > 0")
	}
	if c.BLE.HealthInterval <= 0 {
		return fmt.Errorf("ble.health_interval must be > 0")
	}
	if c.BLE.ReconnectDelay <= 0 {
		return fmt.Errorf("ble.reconnect_delay must be > 0")
	}

	if c.Light.DebounceWindow <= 0 {
		return fmt.Errorf("light.debounce_window must be > 0")
	}
	if c.Light.QueueSize <= 0 {
		return fmt.Errorf("light.queue_size must be > 0")
	}
	if c.Light.DefaultIntensity > 100 {
		return fmt.Errorf("light.default_intensity must be in [0, 100], got %d", c.Light.DefaultIntensity)
	}

	return nil
}
