package hardware

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ReadAdcValue reads the raw value of an IIO voltage channel below root.
func ReadAdcValue(root, device string, channel int) (int, error) {
	path := filepath.Join(root, device, fmt.Sprintf("in_voltage%d_raw", channel))
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return -1, fmt.Errorf("ADC sysfs not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return -1, fmt.Errorf("failed reading %s: %w", path, err)
	}

	var value int
	_, err = fmt.Sscanf(strings.TrimSpace(string(data)), "%d", &value)
	if err != nil {
		return -1, fmt.Errorf("failed parsing ADC value: %w", err)
	}

	return value, nil
}

func InRange(v, min, max int) bool {
	return v >= min && v <= max
}

// AdcPedal is a pedal wired to an IIO ADC channel.
type AdcPedal struct {
	Root    string
	Device  string
	Channel int
	MaxRaw  int
}

func NewAdcPedal(device string, channel int) *AdcPedal {
	if device == "" {
		device = AdcDevice
	}
	return &AdcPedal{Root: IioRoot, Device: device, Channel: channel, MaxRaw: AdcMaxRaw}
}

// Read returns the pedal position in [0,1]. Out of range raw values
// saturate.
func (p *AdcPedal) Read() (float64, error) {
	raw, err := ReadAdcValue(p.Root, p.Device, p.Channel)
	if err != nil {
		return 0, err
	}
	if !InRange(raw, 0, p.MaxRaw) {
		if raw < 0 {
			return 0, nil
		}
		return 1, nil
	}
	return float64(raw) / float64(p.MaxRaw), nil
}
