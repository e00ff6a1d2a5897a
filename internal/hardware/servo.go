package hardware

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

// PwmServo drives a hobby servo through the sysfs PWM interface. Position
// 0 maps to MinPulse and 1 to MaxPulse.
type PwmServo struct {
	Root     string
	Chip     int
	Channel  int
	Period   time.Duration
	MinPulse time.Duration
	MaxPulse time.Duration

	mu      sync.Mutex
	enabled bool
}

func NewPwmServo(chip, channel int) *PwmServo {
	return &PwmServo{
		Root:     PwmRoot,
		Chip:     chip,
		Channel:  channel,
		Period:   ServoPeriod,
		MinPulse: ServoMinPulse,
		MaxPulse: ServoMaxPulse,
	}
}

func (s *PwmServo) chipDir() string {
	return filepath.Join(s.Root, fmt.Sprintf("pwmchip%d", s.Chip))
}

func (s *PwmServo) channelDir() string {
	return filepath.Join(s.chipDir(), fmt.Sprintf("pwm%d", s.Channel))
}

// Open exports the channel if needed, programs the period and enables it.
func (s *PwmServo) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.channelDir()); os.IsNotExist(err) {
		if err := writeSysfs(filepath.Join(s.chipDir(), "export"), strconv.Itoa(s.Channel)); err != nil {
			return fmt.Errorf("failed to export PWM channel %d: %w", s.Channel, err)
		}
	}
	if err := s.write("period", s.Period.Nanoseconds()); err != nil {
		return err
	}
	if err := s.write("duty_cycle", s.MinPulse.Nanoseconds()); err != nil {
		return err
	}
	if err := writeSysfs(filepath.Join(s.channelDir(), "enable"), "1"); err != nil {
		return fmt.Errorf("failed to enable PWM: %w", err)
	}
	s.enabled = true
	return nil
}

// SetPosition moves the servo. Positions outside [0,1] saturate.
func (s *PwmServo) SetPosition(pos float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled {
		return fmt.Errorf("PWM servo not enabled")
	}
	return s.write("duty_cycle", s.Pulse(pos).Nanoseconds())
}

// Pulse returns the pulse width for a position.
func (s *PwmServo) Pulse(pos float64) time.Duration {
	if pos < 0 || math.IsNaN(pos) {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	span := float64(s.MaxPulse - s.MinPulse)
	return s.MinPulse + time.Duration(pos*span)
}

func (s *PwmServo) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled {
		return nil
	}
	s.enabled = false
	return writeSysfs(filepath.Join(s.channelDir(), "enable"), "0")
}

func (s *PwmServo) write(attr string, ns int64) error {
	if err := writeSysfs(filepath.Join(s.channelDir(), attr), strconv.FormatInt(ns, 10)); err != nil {
		return fmt.Errorf("failed to set PWM %s: %w", attr, err)
	}
	return nil
}

func writeSysfs(path, value string) error {
	return os.WriteFile(path, []byte(value), 0o644)
}
