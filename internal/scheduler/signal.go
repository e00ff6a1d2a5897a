package scheduler

import "context"

// Signal is a single-slot wake notification. Notifications made while one is
// already pending coalesce into it.
type Signal struct {
	ch chan struct{}
}

func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{}, 1)}
}

// Notify marks the signal pending. It never blocks.
func (s *Signal) Notify() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

// Wait blocks until the signal is pending, then consumes it.
func (s *Signal) Wait(ctx context.Context) error {
	select {
	case <-s.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending reports whether a wake is waiting to be consumed.
func (s *Signal) Pending() bool {
	return len(s.ch) > 0
}
