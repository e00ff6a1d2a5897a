package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"car-controller/internal/logger"
)

func newTestScheduler() *Scheduler {
	return New(logger.NewLogger(nil, logger.LogLevelError))
}

func TestSignalCoalesces(t *testing.T) {
	sig := NewSignal()
	sig.Notify()
	sig.Notify()
	sig.Notify()
	assert.True(t, sig.Pending())

	require.NoError(t, sig.Wait(context.Background()))
	assert.False(t, sig.Pending())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, sig.Wait(ctx), context.DeadlineExceeded)
}

func TestPeriodicTaskRunsRepeatedly(t *testing.T) {
	s := newTestScheduler()
	var runs atomic.Int32
	s.Every("count", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()
	require.NoError(t, s.Run(ctx))

	n := runs.Load()
	assert.GreaterOrEqual(t, n, int32(4))
	assert.LessOrEqual(t, n, int32(13))
}

func TestPeriodicTaskRunsImmediately(t *testing.T) {
	s := newTestScheduler()
	ran := make(chan struct{}, 1)
	s.Every("slow", time.Hour, func(ctx context.Context) error {
		ran <- struct{}{}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("first iteration did not run")
	}
	cancel()
	require.NoError(t, <-done)
}

func TestTaskErrorsDoNotStopLoop(t *testing.T) {
	s := newTestScheduler()
	var runs atomic.Int32
	s.Every("failing", 5*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return errors.New("lamp unplugged")
	})

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	require.NoError(t, s.Run(ctx))
	assert.Greater(t, runs.Load(), int32(2))
}

func TestSignalTaskRunsOncePerWake(t *testing.T) {
	s := newTestScheduler()
	sig := NewSignal()
	var runs atomic.Int32
	s.OnSignal("flash", sig, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	assert.Zero(t, runs.Load())

	sig.Notify()
	assert.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())

	sig.Notify()
	assert.Eventually(t, func() bool { return runs.Load() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestRunRejectsInvalidTasks(t *testing.T) {
	s := newTestScheduler()
	s.Every("no-period", 0, func(ctx context.Context) error { return nil })
	assert.Error(t, s.Run(context.Background()))

	s = newTestScheduler()
	s.Every("no-body", time.Second, nil)
	assert.Error(t, s.Run(context.Background()))
}

func TestSleepHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
	assert.NoError(t, Sleep(context.Background(), time.Millisecond))
}
