// Package telemetry carries speed/pedal snapshots from the builder task to
// the sender task.
package telemetry

import (
	"context"
	"fmt"
)

// Capacity is the number of messages the queue holds before Put blocks.
const Capacity = 100

// Header is written once to the output channel before any record.
const Header = "speed,accelerator,brake"

// Message is a value snapshot; it never references the vehicle state.
type Message struct {
	Speed       uint8
	Accelerator uint8
	Brake       uint8
}

// Record renders the message as a zero padded CSV record without line ending.
func (m Message) Record() string {
	return fmt.Sprintf("%03d,%03d,%03d", m.Speed, m.Accelerator, m.Brake)
}

// Queue is a bounded FIFO shared by one producer and one consumer. Put
// blocks while full, Get blocks while empty; nothing is ever dropped.
type Queue struct {
	ch chan Message
}

func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = Capacity
	}
	return &Queue{ch: make(chan Message, capacity)}
}

// Put enqueues m, waiting for space. It only fails when ctx ends first.
func (q *Queue) Put(ctx context.Context, m Message) error {
	select {
	case q.ch <- m:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Get dequeues the oldest message, waiting for one to arrive.
func (q *Queue) Get(ctx context.Context) (Message, error) {
	select {
	case m := <-q.ch:
		return m, nil
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

// Len is the number of queued messages.
func (q *Queue) Len() int {
	return len(q.ch)
}

func (q *Queue) Cap() int {
	return cap(q.ch)
}
