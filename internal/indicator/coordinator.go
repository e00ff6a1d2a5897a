// Package indicator turns the left/right indicator values into lamp
// behaviour: idle lamps, a single flashing side, or hazard flashing.
package indicator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/librescoot/librefsm"

	"car-controller/internal/fsm"
	"car-controller/internal/logger"
	"car-controller/internal/scheduler"
	"car-controller/internal/types"
)

// Lamp is a single indicator output.
type Lamp interface {
	Write(on bool) error
}

// Source provides the indicator values stored in the vehicle state.
type Source interface {
	Indicators() (left, right bool)
}

// Timing is one flash cycle: lamps on for On, then off for Off.
type Timing struct {
	On  time.Duration
	Off time.Duration
}

var (
	SingleTiming = Timing{On: 400 * time.Millisecond, Off: 750 * time.Millisecond}
	HazardTiming = Timing{On: 200 * time.Millisecond, Off: 400 * time.Millisecond}
)

type stateMachine interface {
	Start(ctx context.Context) error
	SendSync(ev librefsm.Event) error
	CurrentState() librefsm.StateID
}

// Coordinator evaluates the indicator state once per drive cycle and wakes
// the matching flash routine. Flash routines run one cycle per wake.
type Coordinator struct {
	logger  *logger.Logger
	source  Source
	left    Lamp
	right   Lamp
	machine stateMachine

	single *scheduler.Signal
	hazard *scheduler.Signal

	SingleTiming Timing
	HazardTiming Timing

	mu       sync.Mutex
	mode     types.IndicatorMode
	onChange func(types.IndicatorMode)
}

func NewCoordinator(source Source, left, right Lamp, l *logger.Logger) *Coordinator {
	return &Coordinator{
		logger:       l.WithTag("indicator"),
		source:       source,
		left:         left,
		right:        right,
		single:       scheduler.NewSignal(),
		hazard:       scheduler.NewSignal(),
		SingleTiming: SingleTiming,
		HazardTiming: HazardTiming,
		mode:         types.IndicatorIdle,
	}
}

// OnModeChange registers a callback invoked after every state change.
func (c *Coordinator) OnModeChange(fn func(types.IndicatorMode)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// Start builds and starts the state machine.
func (c *Coordinator) Start(ctx context.Context) error {
	def := fsm.NewDefinition(c)
	machine, err := def.Build()
	if err != nil {
		return fmt.Errorf("failed to build indicator FSM: %w", err)
	}
	machine.OnStateChange(func(from, to librefsm.StateID) {
		c.logger.Infof("Indicator transition: %s -> %s", from, to)
		c.mu.Lock()
		fn := c.onChange
		c.mu.Unlock()
		if fn != nil {
			fn(fsm.ModeFor(to))
		}
	})
	c.machine = machine

	if err := c.machine.Start(ctx); err != nil {
		return fmt.Errorf("failed to start indicator FSM: %w", err)
	}
	c.logger.Debugf("Indicator state machine started in %s", c.machine.CurrentState())
	return nil
}

// Evaluate derives the mode from the indicator values and acts on it: idle
// switches both lamps off, flashing and hazard wake their flash routine.
// Wakes are issued on every evaluation, not only on transitions.
func (c *Coordinator) Evaluate(left, right bool) (types.IndicatorMode, error) {
	mode := types.ModeFor(left, right)
	prev := c.Mode()

	if mode != prev {
		c.transition(prev, mode)
	}

	switch mode {
	case types.IndicatorHazard:
		c.hazard.Notify()
	case types.IndicatorFlashing:
		c.single.Notify()
	default:
		return mode, c.lampsOff()
	}
	return mode, nil
}

func (c *Coordinator) transition(from, to types.IndicatorMode) {
	c.mu.Lock()
	c.mode = to
	c.mu.Unlock()

	if c.machine == nil {
		return
	}
	if err := c.machine.SendSync(librefsm.Event{ID: fsm.EventFor(to)}); err != nil {
		c.logger.Warnf("Indicator FSM rejected %s -> %s: %v", from, to, err)
	}
	if got := c.machine.CurrentState(); got != fsm.StateFor(to) {
		c.logger.Warnf("Indicator FSM in %s after %s -> %s", got, from, to)
	}
}

// Mode is the state of the indicator machine. Before Start it is the most
// recently evaluated mode.
func (c *Coordinator) Mode() types.IndicatorMode {
	if c.machine != nil {
		return fsm.ModeFor(c.machine.CurrentState())
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

func (c *Coordinator) SingleSignal() *scheduler.Signal { return c.single }
func (c *Coordinator) HazardSignal() *scheduler.Signal { return c.hazard }

// SingleFlash runs one flash cycle with the lamp values found in the
// vehicle state at wake time.
func (c *Coordinator) SingleFlash(ctx context.Context) error {
	left, right := c.source.Indicators()
	return c.flash(ctx, left, right, c.SingleTiming)
}

// HazardFlash runs one flash cycle with both lamps.
func (c *Coordinator) HazardFlash(ctx context.Context) error {
	return c.flash(ctx, true, true, c.HazardTiming)
}

func (c *Coordinator) flash(ctx context.Context, left, right bool, timing Timing) error {
	if err := c.setLamps(left, right); err != nil {
		return err
	}
	onErr := scheduler.Sleep(ctx, timing.On)
	if err := c.lampsOff(); err != nil {
		return err
	}
	if onErr != nil {
		return onErr
	}
	return scheduler.Sleep(ctx, timing.Off)
}

func (c *Coordinator) lampsOff() error {
	return c.setLamps(false, false)
}

func (c *Coordinator) setLamps(left, right bool) error {
	var errs []error
	if err := c.left.Write(left); err != nil {
		errs = append(errs, fmt.Errorf("left indicator: %w", err))
	}
	if err := c.right.Write(right); err != nil {
		errs = append(errs, fmt.Errorf("right indicator: %w", err))
	}
	return errors.Join(errs...)
}

// === State Entry Actions ===

func (c *Coordinator) EnterIdle(_ *librefsm.Context) error {
	c.logger.Debugf("Indicators idle")
	return nil
}

func (c *Coordinator) EnterFlashing(_ *librefsm.Context) error {
	c.logger.Debugf("Indicator flashing")
	return nil
}

func (c *Coordinator) EnterHazard(_ *librefsm.Context) error {
	c.logger.Debugf("Hazard lights on")
	return nil
}
