package core

import "time"

// Task periods. These are fixed design constants.
const (
	CommandsPeriod       = 100 * time.Millisecond // 10 Hz
	EnginePeriod         = 500 * time.Millisecond // 2 Hz
	PhysicsPeriod        = 2 * time.Second        // 0.5 Hz
	SpeedPeriod          = 200 * time.Millisecond // 5 Hz
	ServoPeriod          = 1 * time.Second        // 1 Hz
	WarningPeriod        = 2 * time.Second        // 0.5 Hz
	OdometerPeriod       = 500 * time.Millisecond // 2 Hz
	TelemetryBuildPeriod = 5 * time.Second        // 0.2 Hz
	TelemetrySendPeriod  = 20 * time.Second       // 0.05 Hz
	SideLightPeriod      = 1 * time.Second        // 1 Hz
	IndicatorPeriod      = 2 * time.Second        // 0.5 Hz
)

// Task names as they appear in logs.
const (
	TaskCommands       = "commands"
	TaskEngine         = "engine-status"
	TaskPhysics        = "physics"
	TaskSpeed          = "speed-update"
	TaskServo          = "servo-drive"
	TaskWarning        = "warning-check"
	TaskOdometer       = "odometer-display"
	TaskTelemetryBuild = "telemetry-build"
	TaskTelemetrySend  = "telemetry-send"
	TaskSideLight      = "sidelight"
	TaskIndicators     = "indicator-drive"
	TaskSingleFlash    = "single-flash"
	TaskHazardFlash    = "hazard-flash"
)
