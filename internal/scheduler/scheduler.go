// Package scheduler runs periodic and signal-driven tasks on goroutines.
//
// A periodic task does one unit of work, then sleeps for its period before
// the next iteration. The sleep starts after the work finishes, so the loop
// drifts by the work duration; nothing here promises real-time behaviour.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"car-controller/internal/logger"
)

// Task describes one loop. Exactly one of Period or Wake is set.
type Task struct {
	Name   string
	Period time.Duration
	Wake   *Signal
	Run    func(ctx context.Context) error
}

type Scheduler struct {
	logger *logger.Logger
	tasks  []Task
}

func New(l *logger.Logger) *Scheduler {
	return &Scheduler{logger: l.WithTag("scheduler")}
}

// Every registers fn to run once per period.
func (s *Scheduler) Every(name string, period time.Duration, fn func(ctx context.Context) error) {
	s.tasks = append(s.tasks, Task{Name: name, Period: period, Run: fn})
}

// OnSignal registers fn to run once per wake of sig.
func (s *Scheduler) OnSignal(name string, sig *Signal, fn func(ctx context.Context) error) {
	s.tasks = append(s.tasks, Task{Name: name, Wake: sig, Run: fn})
}

func (s *Scheduler) Tasks() []Task {
	return append([]Task(nil), s.tasks...)
}

// Run starts every registered task and blocks until ctx is cancelled. Task
// errors are logged and the task keeps looping; only cancellation ends it.
func (s *Scheduler) Run(ctx context.Context) error {
	for _, t := range s.tasks {
		if err := t.validate(); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, t := range s.tasks {
		t := t
		g.Go(func() error {
			s.logger.Debugf("Starting task %s", t.Name)
			var err error
			if t.Wake != nil {
				err = s.runSignal(gctx, t)
			} else {
				err = s.runPeriodic(gctx, t)
			}
			s.logger.Debugf("Task %s stopped: %v", t.Name, err)
			return err
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func (s *Scheduler) runPeriodic(ctx context.Context, t Task) error {
	for {
		s.step(ctx, t)
		if err := Sleep(ctx, t.Period); err != nil {
			return err
		}
	}
}

func (s *Scheduler) runSignal(ctx context.Context, t Task) error {
	for {
		if err := t.Wake.Wait(ctx); err != nil {
			return err
		}
		s.step(ctx, t)
	}
}

func (s *Scheduler) step(ctx context.Context, t Task) {
	if err := t.Run(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Warnf("Task %s: %v", t.Name, err)
	}
}

func (t Task) validate() error {
	switch {
	case t.Run == nil:
		return fmt.Errorf("task %s has no body", t.Name)
	case t.Wake == nil && t.Period <= 0:
		return fmt.Errorf("task %s has no period", t.Name)
	case t.Wake != nil && t.Period > 0:
		return fmt.Errorf("task %s is both periodic and signal driven", t.Name)
	}
	return nil
}

// Sleep waits for d or until ctx ends.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
