// Package stats derives the rolling speed average and the over-speed
// warning from sampled speeds.
package stats

import "sync"

const (
	// BatchSize is the number of samples averaged per recomputation.
	BatchSize = 3
	// DrainThreshold is how many samples must be buffered before a batch is consumed.
	DrainThreshold = BatchSize + 1
	// WarningThreshold is the average above which the warning is raised.
	WarningThreshold = 70
)

// History is an unbounded FIFO of speed samples consumed in batches of
// BatchSize once DrainThreshold samples are present. The newest sample of a
// drain stays buffered, so a drain leaves exactly one sample behind.
type History struct {
	samples []uint8
}

func (h *History) Push(speed uint8) {
	h.samples = append(h.samples, speed)
}

func (h *History) Len() int {
	return len(h.samples)
}

// Drain pops the BatchSize oldest samples when at least DrainThreshold are
// buffered.
func (h *History) Drain() ([BatchSize]uint8, bool) {
	var batch [BatchSize]uint8
	if len(h.samples) < DrainThreshold {
		return batch, false
	}
	copy(batch[:], h.samples[:BatchSize])
	h.samples = append(h.samples[:0], h.samples[BatchSize:]...)
	return batch, true
}

// Average is the truncated integer mean of a batch.
func Average(batch [BatchSize]uint8) uint8 {
	var sum int
	for _, s := range batch {
		sum += int(s)
	}
	return uint8(sum / BatchSize)
}

// SpeedStats is the statistics resource group: history, average and warning
// share one lock.
type SpeedStats struct {
	mu      sync.Mutex
	history History
	average uint8
	warning bool
}

func NewSpeedStats() *SpeedStats {
	return &SpeedStats{}
}

// Sample records a speed and recomputes the average and warning when a
// batch is available. It returns the average in effect afterwards and
// whether it was recomputed.
func (s *SpeedStats) Sample(speed uint8) (uint8, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history.Push(speed)
	batch, ok := s.history.Drain()
	if !ok {
		return s.average, false
	}
	s.average = Average(batch)
	s.warning = s.average > WarningThreshold
	return s.average, true
}

func (s *SpeedStats) Average() uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.average
}

func (s *SpeedStats) Warning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.warning
}

// Read returns average and warning together.
func (s *SpeedStats) Read() (average uint8, warning bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.average, s.warning
}

// Buffered is the number of samples waiting in the history.
func (s *SpeedStats) Buffered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Len()
}
