package hardware

import "time"

const (
	GpioChip     = "gpiochip0"
	GpioConsumer = "car-controller"

	IioRoot        = "/sys/bus/iio/devices"
	AdcDevice      = "iio:device0"
	AdcMaxRaw      = 4095
	AcceleratorAdc = 0
	BrakeAdc       = 1

	PwmRoot       = "/sys/class/pwm"
	ServoPwmChip  = 0
	ServoPwmChan  = 0
	ServoPeriod   = 20 * time.Millisecond
	ServoMinPulse = 1000 * time.Microsecond
	ServoMaxPulse = 2000 * time.Microsecond

	SerialDevice = "/dev/ttyUSB0"
)

// Channel names shared by every backend.
const (
	EngineSwitch    = "engine_switch"
	SideLightSwitch = "sidelight_switch"
	LeftSwitch      = "left_switch"
	RightSwitch     = "right_switch"

	EngineLamp    = "engine_lamp"
	SideLightLamp = "sidelight_lamp"
	LeftLamp      = "left_lamp"
	RightLamp     = "right_lamp"
	WarningLamp   = "warning_lamp"
)

// DiMappings maps switches to line offsets on GpioChip.
var DiMappings = map[string]int{
	EngineSwitch:    5,
	SideLightSwitch: 6,
	LeftSwitch:      7,
	RightSwitch:     8,
}

// DoMappings maps lamps to line offsets on GpioChip.
var DoMappings = map[string]int{
	EngineLamp:    17,
	SideLightLamp: 18,
	LeftLamp:      22,
	RightLamp:     23,
	WarningLamp:   11,
}
