package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"car-controller/internal/hardware"
)

func writeConfig(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "car.yaml", `log:
  level: 4
hardware:
  backend: linux
  gpio_chip: gpiochip2
  servo_pwm_chip: 1
  servo_pwm_channel: 2
redis:
  enabled: true
  host: redis.local
  port: 6380
metrics:
  addr: ":9100"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Log.Level)
	assert.Equal(t, BackendLinux, cfg.Hardware.Backend)
	assert.Equal(t, "gpiochip2", cfg.Hardware.GpioChip)
	assert.Equal(t, "iio:device0", cfg.Hardware.AdcDevice)
	assert.Equal(t, 1, cfg.Hardware.ServoPwmChip)
	assert.Equal(t, 2, cfg.Hardware.ServoPwmChannel)
	assert.Equal(t, "/dev/ttyUSB0", cfg.Hardware.SerialDevice)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis.local", cfg.Redis.Host)
	assert.Equal(t, 6380, cfg.Redis.Port)
	assert.Equal(t, ":9100", cfg.Metrics.Addr)
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "car.json", `{"hardware": {"backend": "sim"}, "log": {"level": 0}}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendSim, cfg.Hardware.Backend)
	assert.Equal(t, 0, cfg.Log.Level)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Log.Level)
	assert.Equal(t, BackendSim, cfg.Hardware.Backend)
	assert.Equal(t, "gpiochip0", cfg.Hardware.GpioChip)
	assert.Equal(t, hardware.ServoPwmChip, cfg.Hardware.ServoPwmChip)
	assert.Equal(t, hardware.ServoPwmChan, cfg.Hardware.ServoPwmChannel)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Empty(t, cfg.Metrics.Addr)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, BackendSim, cfg.Hardware.Backend)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CAR_REDIS__HOST", "10.0.0.5")
	t.Setenv("CAR_METRICS__ADDR", ":9200")
	path := writeConfig(t, "car.yaml", "redis:\n  host: ignored\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5", cfg.Redis.Host)
	assert.Equal(t, ":9200", cfg.Metrics.Addr)
}

func TestLoadEnvOverridesWithoutFile(t *testing.T) {
	t.Setenv("CAR_HARDWARE__BACKEND", "linux")
	t.Setenv("CAR_HARDWARE__SERVO_PWM_CHANNEL", "3")
	t.Setenv("CAR_REDIS__ENABLED", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, BackendLinux, cfg.Hardware.Backend)
	assert.Equal(t, 3, cfg.Hardware.ServoPwmChannel)
	assert.True(t, cfg.Redis.Enabled)
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	_, err := Load(writeConfig(t, "car.toml", "x = 1"))
	assert.ErrorContains(t, err, "unsupported config format")
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		modify func(*Config)
	}{
		{"backend", func(c *Config) { c.Hardware.Backend = "can" }},
		{"level", func(c *Config) { c.Log.Level = 9 }},
		{"servo", func(c *Config) { c.Hardware.ServoPwmChannel = -1 }},
		{"port", func(c *Config) { c.Redis.Enabled = true; c.Redis.Port = 70000 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.SetDefaults()
			require.NoError(t, cfg.Validate())
			tc.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
