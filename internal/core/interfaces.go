package core

// AnalogInput is a pedal sensor reading in [0,1].
type AnalogInput interface {
	Read() (float64, error)
}

// DigitalInput is a switch.
type DigitalInput interface {
	Read() (bool, error)
}

// DigitalOutput is a lamp.
type DigitalOutput interface {
	Write(on bool) error
}

// Display is the character display used by the odometer.
type Display interface {
	WriteField(row, col int, text string) error
}

// ServoActuator drives the speedometer needle, position in [0,1].
type ServoActuator interface {
	SetPosition(position float64) error
}

// OutputChannel receives telemetry records, one line per call.
type OutputChannel interface {
	WriteLine(line string) error
}

// Inputs groups every sensor the controller samples.
type Inputs struct {
	Accelerator     AnalogInput
	Brake           AnalogInput
	EngineSwitch    DigitalInput
	SideLightSwitch DigitalInput
	LeftSwitch      DigitalInput
	RightSwitch     DigitalInput
}

// Outputs groups every actuator the controller drives.
type Outputs struct {
	EngineLamp    DigitalOutput
	SideLightLamp DigitalOutput
	LeftLamp      DigitalOutput
	RightLamp     DigitalOutput
	WarningLamp   DigitalOutput
	Display       Display
	Servo         ServoActuator
	Channel       OutputChannel
}

// Recorder receives derived values after each unit of work. Implemented by
// the metrics package; NopRecorder discards everything.
type Recorder interface {
	RecordVehicle(speed, accelerator, brake uint8, distance uint16, engine bool)
	RecordAverage(average uint8, warning bool)
	RecordQueueDepth(depth int)
	RecordTelemetrySent()
	RecordIndicatorMode(mode string)
}

type NopRecorder struct{}

func (NopRecorder) RecordVehicle(uint8, uint8, uint8, uint16, bool) {}
func (NopRecorder) RecordAverage(uint8, bool)                       {}
func (NopRecorder) RecordQueueDepth(int)                            {}
func (NopRecorder) RecordTelemetrySent()                            {}
func (NopRecorder) RecordIndicatorMode(string)                      {}
