package hardware

import (
	"fmt"
	"sync"

	"github.com/warthog618/go-gpiocdev"

	"car-controller/internal/logger"
)

// GpioBank owns the switch and lamp lines of one GPIO chip.
type GpioBank struct {
	logger   *logger.Logger
	chipName string
	chip     *gpiocdev.Chip
	lines    map[string]*gpiocdev.Line
	mu       sync.RWMutex
}

func NewGpioBank(chipName string, l *logger.Logger) *GpioBank {
	if chipName == "" {
		chipName = GpioChip
	}
	return &GpioBank{
		logger:   l.WithTag("gpio"),
		chipName: chipName,
		lines:    make(map[string]*gpiocdev.Line),
	}
}

// Open opens the chip and requests every mapped line: switches as inputs,
// lamps as outputs driven low.
func (b *GpioBank) Open() error {
	b.logger.Infof("Opening GPIO chip %s", b.chipName)

	chip, err := gpiocdev.NewChip(b.chipName)
	if err != nil {
		return fmt.Errorf("failed to open GPIO chip %s: %w", b.chipName, err)
	}
	b.chip = chip

	for name, offset := range DiMappings {
		line, err := chip.RequestLine(offset,
			gpiocdev.AsInput,
			gpiocdev.WithConsumer(GpioConsumer))
		if err != nil {
			return fmt.Errorf("failed to request GPIO line %d for %s: %w", offset, name, err)
		}
		b.addLine(name, line)
		b.logger.Debugf("Configured DI %s: line=%d", name, offset)
	}

	for name, offset := range DoMappings {
		line, err := chip.RequestLine(offset,
			gpiocdev.AsOutput(0),
			gpiocdev.WithConsumer(GpioConsumer))
		if err != nil {
			return fmt.Errorf("failed to request GPIO line %d for %s: %w", offset, name, err)
		}
		b.addLine(name, line)
		b.logger.Debugf("Configured DO %s: line=%d", name, offset)
	}
	return nil
}

func (b *GpioBank) addLine(name string, line *gpiocdev.Line) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines[name] = line
}

func (b *GpioBank) line(name string) (*gpiocdev.Line, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	line, ok := b.lines[name]
	if !ok {
		return nil, fmt.Errorf("unknown GPIO channel: %s", name)
	}
	return line, nil
}

// Switch returns the input bound to a DiMappings channel.
func (b *GpioBank) Switch(name string) *GpioSwitch {
	return &GpioSwitch{bank: b, name: name}
}

// Lamp returns the output bound to a DoMappings channel.
func (b *GpioBank) Lamp(name string) *GpioLamp {
	return &GpioLamp{bank: b, name: name}
}

func (b *GpioBank) Cleanup() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for name, line := range b.lines {
		line.Close()
		b.logger.Debugf("Closed GPIO line for %s", name)
	}
	b.lines = make(map[string]*gpiocdev.Line)

	if b.chip != nil {
		b.chip.Close()
		b.chip = nil
		b.logger.Infof("Closed GPIO chip %s", b.chipName)
	}
}

type GpioSwitch struct {
	bank *GpioBank
	name string
}

func (s *GpioSwitch) Read() (bool, error) {
	line, err := s.bank.line(s.name)
	if err != nil {
		return false, err
	}
	v, err := line.Value()
	if err != nil {
		return false, fmt.Errorf("failed to read DI %s: %w", s.name, err)
	}
	return v == 1, nil
}

type GpioLamp struct {
	bank *GpioBank
	name string
}

func (l *GpioLamp) Write(on bool) error {
	line, err := l.bank.line(l.name)
	if err != nil {
		return err
	}
	val := 0
	if on {
		val = 1
	}
	if err := line.SetValue(val); err != nil {
		return fmt.Errorf("failed to set DO %s=%v: %w", l.name, on, err)
	}
	return nil
}
