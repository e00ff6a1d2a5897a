package main

import (
	"fmt"
	"os"

	"car-controller/internal/config"
	"car-controller/internal/core"
	"car-controller/internal/hardware"
	"car-controller/internal/logger"
	"car-controller/internal/messaging"
)

// backend is one set of collaborators plus whatever must be released on
// exit.
type backend struct {
	inputs  core.Inputs
	outputs core.Outputs
	display messaging.LineDisplay
	panel   *hardware.Panel
	logger  *logger.Logger
	closers []func() error
}

// Close releases resources in reverse order of acquisition. Failures are
// logged and do not stop the remaining closers.
func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil && b.logger != nil {
			b.logger.Warnf("Failed to release hardware: %v", err)
		}
	}
}

func openBackend(cfg config.HardwareConfig, l *logger.Logger) (*backend, error) {
	switch cfg.Backend {
	case config.BackendLinux:
		return openLinux(cfg, l)
	default:
		return openSim(l), nil
	}
}

func openSim(l *logger.Logger) *backend {
	hl := l.WithTag("hardware")
	p := hardware.NewPanel()

	for name, lamp := range map[string]*hardware.SimLamp{
		hardware.EngineLamp:    &p.EngineLamp,
		hardware.SideLightLamp: &p.SideLightLamp,
		hardware.LeftLamp:      &p.LeftLamp,
		hardware.RightLamp:     &p.RightLamp,
		hardware.WarningLamp:   &p.WarningLamp,
	} {
		lamp.OnChange = func(on bool) {
			hl.Debugf("%s=%v", name, on)
		}
	}

	return &backend{
		inputs: core.Inputs{
			Accelerator:     &p.Accelerator,
			Brake:           &p.Brake,
			EngineSwitch:    &p.EngineSwitch,
			SideLightSwitch: &p.SideLightSwitch,
			LeftSwitch:      &p.LeftSwitch,
			RightSwitch:     &p.RightSwitch,
		},
		outputs: core.Outputs{
			EngineLamp:    &p.EngineLamp,
			SideLightLamp: &p.SideLightLamp,
			LeftLamp:      &p.LeftLamp,
			RightLamp:     &p.RightLamp,
			WarningLamp:   &p.WarningLamp,
			Display:       p.Display,
			Servo:         &p.Servo,
			Channel:       hardware.NewWriterChannel(os.Stdout),
		},
		display: p.Display,
		panel:   p,
		logger:  hl,
	}
}

func openLinux(cfg config.HardwareConfig, l *logger.Logger) (*backend, error) {
	b := &backend{logger: l.WithTag("hardware")}

	bank := hardware.NewGpioBank(cfg.GpioChip, l)
	if err := bank.Open(); err != nil {
		bank.Cleanup()
		return nil, err
	}
	b.closers = append(b.closers, func() error { bank.Cleanup(); return nil })

	servo := hardware.NewPwmServo(cfg.ServoPwmChip, cfg.ServoPwmChannel)
	if err := servo.Open(); err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to open servo: %w", err)
	}
	b.closers = append(b.closers, servo.Close)

	serial, err := hardware.OpenSerial(cfg.SerialDevice)
	if err != nil {
		b.Close()
		return nil, err
	}
	b.closers = append(b.closers, serial.Close)

	hl := l.WithTag("lcd")
	lcd := hardware.NewTextLCD()
	lcd.Flush = func(lines [hardware.LcdRows]string) error {
		hl.Debugf("[%s] [%s]", lines[0], lines[1])
		return nil
	}

	b.inputs = core.Inputs{
		Accelerator:     hardware.NewAdcPedal(cfg.AdcDevice, hardware.AcceleratorAdc),
		Brake:           hardware.NewAdcPedal(cfg.AdcDevice, hardware.BrakeAdc),
		EngineSwitch:    bank.Switch(hardware.EngineSwitch),
		SideLightSwitch: bank.Switch(hardware.SideLightSwitch),
		LeftSwitch:      bank.Switch(hardware.LeftSwitch),
		RightSwitch:     bank.Switch(hardware.RightSwitch),
	}
	b.outputs = core.Outputs{
		EngineLamp:    bank.Lamp(hardware.EngineLamp),
		SideLightLamp: bank.Lamp(hardware.SideLightLamp),
		LeftLamp:      bank.Lamp(hardware.LeftLamp),
		RightLamp:     bank.Lamp(hardware.RightLamp),
		WarningLamp:   bank.Lamp(hardware.WarningLamp),
		Display:       lcd,
		Servo:         servo,
		Channel:       serial,
	}
	b.display = lcd
	return b, nil
}
