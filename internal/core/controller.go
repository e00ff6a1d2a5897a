package core

import (
	"context"
	"fmt"
	"sync"

	"car-controller/internal/indicator"
	"car-controller/internal/logger"
	"car-controller/internal/scheduler"
	"car-controller/internal/stats"
	"car-controller/internal/telemetry"
	"car-controller/internal/types"
	"car-controller/internal/vehicle"
)

// Controller owns the vehicle state, the statistics, the telemetry queue and
// the indicator coordinator, and runs every task that touches them.
//
// Lock discipline: the car, the statistics, the display and the output
// channel each have their own lock. A task takes at most one of them at a
// time, so there is no lock ordering to get wrong.
type Controller struct {
	logger     *logger.Logger
	car        *vehicle.Car
	stats      *stats.SpeedStats
	queue      *telemetry.Queue
	indicators *indicator.Coordinator
	scheduler  *scheduler.Scheduler
	recorder   Recorder

	in  Inputs
	out Outputs

	displayMu sync.Mutex
	outputMu  sync.Mutex
}

type Option func(*Controller)

// WithRecorder sets the sink for derived values.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithQueueCapacity overrides the telemetry queue size.
func WithQueueCapacity(n int) Option {
	return func(c *Controller) {
		c.queue = telemetry.NewQueue(n)
	}
}

func NewController(in Inputs, out Outputs, l *logger.Logger, opts ...Option) *Controller {
	car := vehicle.NewCar()
	c := &Controller{
		logger:    l.WithTag("controller"),
		car:       car,
		stats:     stats.NewSpeedStats(),
		queue:     telemetry.NewQueue(telemetry.Capacity),
		scheduler: scheduler.New(l),
		recorder:  NopRecorder{},
		in:        in,
		out:       out,
	}
	c.indicators = indicator.NewCoordinator(car, out.LeftLamp, out.RightLamp, l)
	for _, opt := range opts {
		opt(c)
	}
	c.indicators.OnModeChange(func(m types.IndicatorMode) {
		c.recorder.RecordIndicatorMode(string(m))
	})
	return c
}

func (c *Controller) Car() *vehicle.Car { return c.car }
func (c *Controller) Stats() *stats.SpeedStats { return c.stats }
func (c *Controller) Queue() *telemetry.Queue { return c.queue }
func (c *Controller) Indicators() *indicator.Coordinator { return c.indicators }

// Start prepares the display and output channel, starts the indicator state
// machine and registers every task. Run calls it.
func (c *Controller) Start(ctx context.Context) error {
	c.logger.Infof("Starting controller")

	if err := c.indicators.Start(ctx); err != nil {
		return err
	}

	if err := c.writeLayout(); err != nil {
		c.logger.Warnf("Failed to draw display layout: %v", err)
	}
	if err := c.writeHeader(); err != nil {
		c.logger.Warnf("Failed to write telemetry header: %v", err)
	}

	c.registerTasks()
	c.logger.Infof("Registered %d tasks", len(c.scheduler.Tasks()))
	return nil
}

// Run starts the controller and blocks until ctx is cancelled.
func (c *Controller) Run(ctx context.Context) error {
	if err := c.Start(ctx); err != nil {
		return fmt.Errorf("failed to start controller: %w", err)
	}
	err := c.scheduler.Run(ctx)
	c.logger.Infof("Controller stopped")
	return err
}

func (c *Controller) registerTasks() {
	s := c.scheduler
	s.Every(TaskCommands, CommandsPeriod, c.updateCommands)
	s.Every(TaskEngine, EnginePeriod, c.updateEngine)
	s.Every(TaskPhysics, PhysicsPeriod, c.updatePhysics)
	s.Every(TaskSpeed, SpeedPeriod, c.updateSpeed)
	s.Every(TaskServo, ServoPeriod, c.driveServo)
	s.Every(TaskWarning, WarningPeriod, c.updateWarning)
	s.Every(TaskOdometer, OdometerPeriod, c.driveOdometer)
	s.Every(TaskTelemetryBuild, TelemetryBuildPeriod, c.buildTelemetry)
	s.Every(TaskTelemetrySend, TelemetrySendPeriod, c.sendTelemetry)
	s.Every(TaskSideLight, SideLightPeriod, c.updateSideLight)
	s.Every(TaskIndicators, IndicatorPeriod, c.driveIndicators)
	s.OnSignal(TaskSingleFlash, c.indicators.SingleSignal(), c.indicators.SingleFlash)
	s.OnSignal(TaskHazardFlash, c.indicators.HazardSignal(), c.indicators.HazardFlash)
}

func (c *Controller) writeLayout() error {
	c.displayMu.Lock()
	defer c.displayMu.Unlock()

	if err := c.out.Display.WriteField(0, 0, "    mph"); err != nil {
		return err
	}
	return c.out.Display.WriteField(1, 7, " m")
}

func (c *Controller) writeHeader() error {
	c.outputMu.Lock()
	defer c.outputMu.Unlock()
	return c.out.Channel.WriteLine(telemetry.Header)
}
