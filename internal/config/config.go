// Package config loads the controller configuration from a YAML or JSON
// file with CAR_ environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"car-controller/internal/hardware"
	"car-controller/internal/logger"
)

const EnvPrefix = "CAR_"

const (
	BackendSim   = "sim"
	BackendLinux = "linux"
)

type Config struct {
	Log      LogConfig      `json:"log"`
	Hardware HardwareConfig `json:"hardware"`
	Redis    RedisConfig    `json:"redis"`
	Metrics  MetricsConfig  `json:"metrics"`
}

type LogConfig struct {
	// Level is 0=none, 1=error, 2=warning, 3=info, 4=debug.
	Level int `json:"level"`
}

type HardwareConfig struct {
	// Backend is "sim" or "linux".
	Backend         string `json:"backend"`
	GpioChip        string `json:"gpio_chip"`
	AdcDevice       string `json:"adc_device"`
	ServoPwmChip    int    `json:"servo_pwm_chip"`
	ServoPwmChannel int    `json:"servo_pwm_channel"`
	SerialDevice    string `json:"serial_device"`
}

type RedisConfig struct {
	Enabled bool   `json:"enabled"`
	Host    string `json:"host"`
	Port    int    `json:"port"`
}

type MetricsConfig struct {
	// Addr enables the /metrics endpoint when set, e.g. ":9100".
	Addr string `json:"addr"`
}

// Load reads path, if it exists, then applies environment overrides such
// as CAR_REDIS__HOST. An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Defaults whose zero value is meaningful, set before loading so an
	// explicit 0 is kept.
	for key, val := range map[string]interface{}{
		"log.level":                  int(logger.LogLevelInfo),
		"hardware.servo_pwm_chip":    hardware.ServoPwmChip,
		"hardware.servo_pwm_channel": hardware.ServoPwmChan,
	} {
		if err := k.Set(key, val); err != nil {
			return nil, err
		}
	}

	if path != "" {
		if err := loadFile(k, path); err != nil {
			return nil, err
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(k *koanf.Koanf, path string) error {
	var parser koanf.Parser
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return fmt.Errorf("unsupported config format: %s", ext)
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func (c *Config) SetDefaults() {
	if c.Hardware.Backend == "" {
		c.Hardware.Backend = BackendSim
	}
	if c.Hardware.GpioChip == "" {
		c.Hardware.GpioChip = hardware.GpioChip
	}
	if c.Hardware.AdcDevice == "" {
		c.Hardware.AdcDevice = hardware.AdcDevice
	}
	if c.Hardware.SerialDevice == "" {
		c.Hardware.SerialDevice = hardware.SerialDevice
	}
	if c.Redis.Host == "" {
		c.Redis.Host = "localhost"
	}
	if c.Redis.Port == 0 {
		c.Redis.Port = 6379
	}
}

func (c *Config) Validate() error {
	if c.Log.Level < int(logger.LogLevelNone) || c.Log.Level > int(logger.LogLevelDebug) {
		return fmt.Errorf("log.level must be between %d and %d", logger.LogLevelNone, logger.LogLevelDebug)
	}
	switch c.Hardware.Backend {
	case BackendSim, BackendLinux:
	default:
		return fmt.Errorf("hardware.backend must be %q or %q, got %q", BackendSim, BackendLinux, c.Hardware.Backend)
	}
	if c.Hardware.ServoPwmChip < 0 || c.Hardware.ServoPwmChannel < 0 {
		return fmt.Errorf("hardware servo PWM chip and channel must not be negative")
	}
	if c.Redis.Enabled && (c.Redis.Port <= 0 || c.Redis.Port > 65535) {
		return fmt.Errorf("redis.port out of range: %d", c.Redis.Port)
	}
	return nil
}
