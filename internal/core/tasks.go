package core

import (
	"context"
	"fmt"

	"car-controller/internal/telemetry"
	"car-controller/internal/vehicle"
)

// updateCommands samples both pedals.
func (c *Controller) updateCommands(_ context.Context) error {
	acc, err := c.in.Accelerator.Read()
	if err != nil {
		return fmt.Errorf("failed to read accelerator: %w", err)
	}
	brake, err := c.in.Brake.Read()
	if err != nil {
		return fmt.Errorf("failed to read brake: %w", err)
	}
	c.car.SetPedals(vehicle.PedalValue(acc), vehicle.PedalValue(brake))
	return nil
}

// updateEngine follows the engine switch and mirrors it on the engine lamp.
func (c *Controller) updateEngine(_ context.Context) error {
	on, err := c.in.EngineSwitch.Read()
	if err != nil {
		return fmt.Errorf("failed to read engine switch: %w", err)
	}
	if on != c.car.EngineOn() {
		c.logger.Infof("Engine %s", onOff(on))
	}
	c.car.SetEngine(on)
	return c.out.EngineLamp.Write(on)
}

func (c *Controller) updatePhysics(_ context.Context) error {
	c.car.Tick(vehicle.TickStep)
	s := c.car.Snapshot()
	c.recorder.RecordVehicle(s.Speed, s.Accelerator, s.Brake, s.Distance, s.Engine)
	return nil
}

// updateSpeed feeds the history and refreshes the average when a batch is
// complete.
func (c *Controller) updateSpeed(_ context.Context) error {
	speed := c.car.Speed()
	avg, recomputed := c.stats.Sample(speed)
	if recomputed {
		warning := c.stats.Warning()
		c.logger.Debugf("Average speed %d (warning=%v)", avg, warning)
		c.recorder.RecordAverage(avg, warning)
	}
	return nil
}

func (c *Controller) driveServo(_ context.Context) error {
	avg := c.stats.Average()
	return c.out.Servo.SetPosition(float64(avg) / vehicle.MaxSpeed)
}

func (c *Controller) updateWarning(_ context.Context) error {
	return c.out.WarningLamp.Write(c.stats.Warning())
}

// driveOdometer renders distance, average speed and the parked marker.
func (c *Controller) driveOdometer(_ context.Context) error {
	avg := c.stats.Average()
	s := c.car.Snapshot()

	parked := "(P)"
	if s.Engine {
		parked = "   "
	}

	c.displayMu.Lock()
	defer c.displayMu.Unlock()

	if err := c.out.Display.WriteField(1, 0, fmt.Sprintf("%06d", s.Distance)); err != nil {
		return fmt.Errorf("failed to draw distance: %w", err)
	}
	if err := c.out.Display.WriteField(0, 0, fmt.Sprintf("%03d", avg)); err != nil {
		return fmt.Errorf("failed to draw speed: %w", err)
	}
	if err := c.out.Display.WriteField(0, 13, parked); err != nil {
		return fmt.Errorf("failed to draw parked marker: %w", err)
	}
	return nil
}

// buildTelemetry snapshots the average and pedals into the queue, waiting
// while the queue is full.
func (c *Controller) buildTelemetry(ctx context.Context) error {
	avg := c.stats.Average()
	acc, brake := c.car.Pedals()

	msg := telemetry.Message{Speed: avg, Accelerator: acc, Brake: brake}
	if err := c.queue.Put(ctx, msg); err != nil {
		return err
	}
	c.recorder.RecordQueueDepth(c.queue.Len())
	return nil
}

// sendTelemetry writes one queued message to the output channel.
func (c *Controller) sendTelemetry(ctx context.Context) error {
	msg, err := c.queue.Get(ctx)
	if err != nil {
		return err
	}
	c.recorder.RecordQueueDepth(c.queue.Len())

	c.outputMu.Lock()
	err = c.out.Channel.WriteLine(msg.Record())
	c.outputMu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to send telemetry: %w", err)
	}
	c.recorder.RecordTelemetrySent()
	return nil
}

func (c *Controller) updateSideLight(_ context.Context) error {
	on, err := c.in.SideLightSwitch.Read()
	if err != nil {
		return fmt.Errorf("failed to read sidelight switch: %w", err)
	}
	c.car.SetSideLight(on)
	return c.out.SideLightLamp.Write(c.car.SideLight())
}

// driveIndicators stores the switch values in the vehicle state, then lets
// the coordinator act on what was stored.
func (c *Controller) driveIndicators(_ context.Context) error {
	left, err := c.in.LeftSwitch.Read()
	if err != nil {
		return fmt.Errorf("failed to read left switch: %w", err)
	}
	right, err := c.in.RightSwitch.Read()
	if err != nil {
		return fmt.Errorf("failed to read right switch: %w", err)
	}
	c.car.SetIndicators(left, right)

	left, right = c.car.Indicators()
	_, err = c.indicators.Evaluate(left, right)
	return err
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
