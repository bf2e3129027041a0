package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.BLE.DeviceName != "BT_LED" {
		t.Errorf("BLE.DeviceName = %q, want %q", cfg.BLE.DeviceName, "BT_LED")
	}
	if cfg.BLE.ServiceUUID != "00010203-0405-0607-0809-0a0b0c0d1910" {
		t.Errorf("BLE.ServiceUUID = %q", cfg.BLE.ServiceUUID)
	}
	if cfg.BLE.PollInterval != 500*time.Millisecond {
		t.Errorf("BLE.PollInterval = %v, want 500ms", cfg.BLE.PollInterval)
	}
	if cfg.BLE.HealthInterval != time.Second {
		t.Errorf("BLE.HealthInterval = %v, want 1s", cfg.BLE.HealthInterval)
	}
	if cfg.BLE.ReconnectDelay != 5*time.Second {
		t.Errorf("BLE.ReconnectDelay = %v, want 5s", cfg.BLE.ReconnectDelay)
	}
	if cfg.BLE.SendHandshake {
		t.Error("BLE.SendHandshake should default to false")
	}
	if cfg.Light.DebounceWindow != 100*time.Millisecond {
		t.Errorf("Light.DebounceWindow = %v, want 100ms", cfg.Light.DebounceWindow)
	}
	if cfg.Light.QueueSize != 10 {
		t.Errorf("Light.QueueSize = %d, want 10", cfg.Light.QueueSize)
	}
	if cfg.Light.DefaultIntensity != 10 {
		t.Errorf("Light.DefaultIntensity = %d, want 10", cfg.Light.DefaultIntensity)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default() should validate, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	yamlContent := `
log_level: debug
log_json: true
ble:
  device_name: BT_LED_V2
  poll_interval: 1s
  reconnect_delay: 2s
  send_handshake: true
light:
  debounce_window: 250ms
  queue_size: 32
  default_intensity: 50
`
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if !cfg.LogJSON {
		t.Error("LogJSON = false, want true")
	}
	if cfg.BLE.DeviceName != "BT_LED_V2" {
		t.Errorf("BLE.DeviceName = %q, want %q", cfg.BLE.DeviceName, "BT_LED_V2")
	}
	if cfg.BLE.PollInterval != time.Second {
		t.Errorf("BLE.PollInterval = %v, want 1s", cfg.BLE.PollInterval)
	}
	if cfg.BLE.ReconnectDelay != 2*time.Second {
		t.Errorf("BLE.ReconnectDelay = %v, want 2s", cfg.BLE.ReconnectDelay)
	}
	if !cfg.BLE.SendHandshake {
		t.Error("BLE.SendHandshake = false, want true")
	}
	// Fields missing from the file keep their defaults.
	if cfg.BLE.HealthInterval != time.Second {
		t.Errorf("BLE.HealthInterval = %v, want default 1s", cfg.BLE.HealthInterval)
	}
	if cfg.Light.DebounceWindow != 250*time.Millisecond {
		t.Errorf("Light.DebounceWindow = %v, want 250ms", cfg.Light.DebounceWindow)
	}
	if cfg.Light.QueueSize != 32 {
		t.Errorf("Light.QueueSize = %d, want 32", cfg.Light.QueueSize)
	}
	if cfg.Light.DefaultIntensity != 50 {
		t.Errorf("Light.DefaultIntensity = %d, want 50", cfg.Light.DefaultIntensity)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("Load() should fail for a missing file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LEDCTL_LOG_LEVEL", "trace")
	t.Setenv("LEDCTL_BLE_DEVICE_NAME", "BT_LED_TEST")
	t.Setenv("LEDCTL_BLE_POLL_INTERVAL", "50ms")
	t.Setenv("LEDCTL_LIGHT_DEFAULT_INTENSITY", "75")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}

	if cfg.LogLevel != "trace" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "trace")
	}
	if cfg.BLE.DeviceName != "BT_LED_TEST" {
		t.Errorf("BLE.DeviceName = %q, want %q", cfg.BLE.DeviceName, "BT_LED_TEST")
	}
	if cfg.BLE.PollInterval != 50*time.Millisecond {
		t.Errorf("BLE.PollInterval = %v, want 50ms", cfg.BLE.PollInterval)
	}
	if cfg.Light.DefaultIntensity != 75 {
		t.Errorf("Light.DefaultIntensity = %d, want 75", cfg.Light.DefaultIntensity)
	}
}

func TestEnvOverridesBeatFile(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("log_level: debug\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("LEDCTL_LOG_LEVEL", "error")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q, want env override %q", cfg.LogLevel, "error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"empty device name", func(c *Config) { c.BLE.DeviceName = "" }, "device_name"},
		{"empty service uuid", func(c *Config) { c.BLE.ServiceUUID = "" }, "service_uuid"},
		{"zero poll interval", func(c *Config) { c.BLE.PollInterval = 0 }, "poll_interval"},
		{"negative health interval", func(c *Config) { c.BLE.HealthInterval = -time.Second }, "health_interval"},
		{"zero reconnect delay", func(c *Config) { c.BLE.ReconnectDelay = 0 }, "reconnect_delay"},
		{"zero debounce window", func(c *Config) { c.Light.DebounceWindow = 0 }, "debounce_window"},
		{"zero queue size", func(c *Config) { c.Light.QueueSize = 0 }, "queue_size"},
		{"intensity out of range", func(c *Config) { c.Light.DefaultIntensity = 101 }, "default_intensity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error %q should mention %q", err, tt.wantErr)
			}
		})
	}
}
